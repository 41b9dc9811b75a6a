package payment

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted,
		StatusFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

type Method string

const (
	MethodStripe       Method = "stripe"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileMoney  Method = "mobile_money"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodStripe, MethodPayPal, MethodBankTransfer, MethodMobileMoney:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}

type RefundReason string

const (
	ReasonCustomerRequest  RefundReason = "customer_request"
	ReasonDuplicatePayment RefundReason = "duplicate_payment"
	ReasonFraudulent       RefundReason = "fraudulent"
	ReasonSystemError      RefundReason = "system_error"
	ReasonOther            RefundReason = "other"
)

func (r RefundReason) IsValid() bool {
	switch r {
	case ReasonCustomerRequest, ReasonDuplicatePayment, ReasonFraudulent,
		ReasonSystemError, ReasonOther:
		return true
	default:
		return false
	}
}

func (r RefundReason) String() string {
	return string(r)
}

type RefundStatus string

const (
	RefundPending    RefundStatus = "pending"
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
	RefundFailed     RefundStatus = "failed"
	RefundCancelled  RefundStatus = "cancelled"
)

func (r RefundStatus) String() string {
	return string(r)
}
