//go:build unit

package builder

import (
	"time"

	domvoucher "edu-vouchers/internal/domain/voucher"
	reqdto "edu-vouchers/internal/handler/dto/request"
	"edu-vouchers/internal/usecase/queries"
	"edu-vouchers/internal/usecase/shared"

	"github.com/google/uuid"
)

type VoucherBuilder struct {
	ID            uuid.UUID
	TypeID        uuid.UUID
	UserID        uuid.UUID
	TypeName      string
	TypeCode      domvoucher.TypeCode
	PriceCents    int64
	ValidityDays  int32
	UsageLimit    int32
	TypeActive    bool
	Code          string
	Status        domvoucher.Status
	UsageCount    int32
	LastUsedAt    *time.Time
	IssuedAt      time.Time
	ExpiresAt     time.Time
	TransactionID *string
	Metadata      domvoucher.Metadata
}

func NewVoucherBuilder() *VoucherBuilder {
	now := time.Now()
	return &VoucherBuilder{
		ID:           uuid.New(),
		TypeID:       uuid.New(),
		UserID:       uuid.New(),
		TypeName:     "Result Check",
		TypeCode:     domvoucher.TypeResultCheck,
		PriceCents:   1500,
		ValidityDays: 90,
		UsageLimit:   1,
		TypeActive:   true,
		Code:         "ABCD1234EFGH",
		Status:       domvoucher.StatusActive,
		UsageCount:   0,
		IssuedAt:     now,
		ExpiresAt:    now.AddDate(0, 0, 90),
		Metadata:     domvoucher.Metadata{},
	}
}

func (b *VoucherBuilder) With(mutate func(*VoucherBuilder)) *VoucherBuilder {
	mutate(b)
	return b
}

func (b *VoucherBuilder) Spec() domvoucher.TypeSpec {
	return domvoucher.TypeSpec{
		ID:           b.TypeID,
		TypeCode:     b.TypeCode,
		ValidityDays: b.ValidityDays,
		UsageLimit:   b.UsageLimit,
		IsActive:     b.TypeActive,
	}
}

// Build methods
func (b *VoucherBuilder) BuildDomain() (*domvoucher.Voucher, error) {
	code, err := domvoucher.NewCode(b.Code)
	if err != nil {
		return nil, err
	}
	return domvoucher.NewVoucher(b.Spec(), b.UserID, code, b.IssuedAt, b.TransactionID)
}

// BuildReconstructed bypasses issuance validation so tests can set up
// vouchers in arbitrary stored states.
func (b *VoucherBuilder) BuildReconstructed() *domvoucher.Voucher {
	code, _ := domvoucher.NewCode(b.Code)
	return domvoucher.ReconstructVoucher(
		b.ID, b.TypeID, b.UserID,
		code, b.Status,
		b.UsageCount, b.UsageLimit,
		b.LastUsedAt,
		b.IssuedAt, b.ExpiresAt,
		b.TransactionID, b.Metadata,
	)
}

func (b *VoucherBuilder) BuildSnapshot() *shared.VoucherTypeSnapshot {
	return &shared.VoucherTypeSnapshot{
		ID:           b.TypeID,
		Name:         b.TypeName,
		TypeCode:     b.TypeCode.String(),
		PriceCents:   b.PriceCents,
		ValidityDays: b.ValidityDays,
		UsageLimit:   b.UsageLimit,
		IsActive:     b.TypeActive,
	}
}

func (b *VoucherBuilder) BuildView() *queries.VoucherView {
	return &queries.VoucherView{
		ID:            b.ID,
		Code:          b.Code,
		VoucherTypeID: b.TypeID,
		TypeName:      b.TypeName,
		TypeCode:      b.TypeCode.String(),
		UserID:        b.UserID,
		Status:        b.Status.String(),
		UsageCount:    b.UsageCount,
		UsageLimit:    b.UsageLimit,
		PurchasedAt:   b.IssuedAt,
		ExpiresAt:     b.ExpiresAt,
		LastUsedAt:    b.LastUsedAt,
	}
}

func (b *VoucherBuilder) BuildRedeemRequestDTO() reqdto.RedeemVoucherRequest {
	return reqdto.RedeemVoucherRequest{
		Code:        b.Code,
		ServiceType: b.TypeCode.String(),
		ServiceData: map[string]any{"exam_year": "2026"},
	}
}

func (b *VoucherBuilder) BuildIssueRequestDTO() reqdto.IssueVoucherRequest {
	return reqdto.IssueVoucherRequest{
		VoucherTypeID:  b.TypeID,
		UserID:         b.UserID,
		TransactionRef: b.TransactionID,
	}
}

// Fluent builder methods
func (b *VoucherBuilder) WithCode(code string) *VoucherBuilder {
	b.Code = code
	return b
}

func (b *VoucherBuilder) WithStatus(status domvoucher.Status) *VoucherBuilder {
	b.Status = status
	return b
}

func (b *VoucherBuilder) WithUsage(count, limit int32) *VoucherBuilder {
	b.UsageCount = count
	b.UsageLimit = limit
	return b
}

func (b *VoucherBuilder) WithExpiresAt(expiresAt time.Time) *VoucherBuilder {
	b.ExpiresAt = expiresAt
	return b
}

func (b *VoucherBuilder) WithUserID(userID uuid.UUID) *VoucherBuilder {
	b.UserID = userID
	return b
}

func (b *VoucherBuilder) AsInactiveType() *VoucherBuilder {
	b.TypeActive = false
	return b
}

func (b *VoucherBuilder) AsExpired() *VoucherBuilder {
	b.ExpiresAt = time.Now().AddDate(0, 0, -1)
	return b
}
