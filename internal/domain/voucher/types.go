package voucher

type Status string

const (
	StatusActive    Status = "active"
	StatusUsed      Status = "used"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// TypeCode identifies the academic service a voucher type unlocks.
type TypeCode string

const (
	TypeResultCheck             TypeCode = "result_check"
	TypeSchoolApplication       TypeCode = "school_application"
	TypePlacementApplication    TypeCode = "placement_application"
	TypeCertificateVerification TypeCode = "certificate_verification"
	TypeTranscriptRequest       TypeCode = "transcript_request"
)

func (t TypeCode) IsValid() bool {
	switch t {
	case TypeResultCheck, TypeSchoolApplication, TypePlacementApplication,
		TypeCertificateVerification, TypeTranscriptRequest:
		return true
	default:
		return false
	}
}

func (t TypeCode) String() string {
	return string(t)
}
