package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidAmount     = errors.New("amount cannot be negative")
	ErrInvalidCurrency   = errors.New("currency must be a 3-letter code")
	ErrInvalidMethod     = errors.New("unsupported payment method")
	ErrAlreadyCompleted  = errors.New("payment already completed")
	ErrNotConfirmable    = errors.New("payment cannot be completed from its current status")
	ErrExcessiveDiscount = errors.New("discount cannot exceed the base amount")
)

// Payment records one purchase of N vouchers of a single type. amountCents is
// the unit price at purchase time; the charged total is derived, never stored.
type Payment struct {
	id                  uuid.UUID
	userID              uuid.UUID
	voucherTypeID       uuid.UUID
	amountCents         int64
	quantity            int32
	currency            string
	status              Status
	method              Method
	intentID            *string
	chargeID            *string
	discountAmountCents int64
	discountCode        *string
	metadata            map[string]any
	createdAt           time.Time
	updatedAt           time.Time
	completedAt         *time.Time
}

func NewPayment(
	userID, voucherTypeID uuid.UUID,
	unitAmountCents int64,
	quantity int32,
	currency string,
	method Method,
	discountAmountCents int64,
	discountCode *string,
) (*Payment, error) {
	if unitAmountCents < 0 {
		return nil, ErrInvalidAmount
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}
	if discountAmountCents < 0 {
		return nil, ErrInvalidAmount
	}
	if discountAmountCents > unitAmountCents*int64(quantity) {
		return nil, ErrExcessiveDiscount
	}

	return &Payment{
		id:                  uuid.New(),
		userID:              userID,
		voucherTypeID:       voucherTypeID,
		amountCents:         unitAmountCents,
		quantity:            quantity,
		currency:            currency,
		status:              StatusPending,
		method:              method,
		discountAmountCents: discountAmountCents,
		discountCode:        discountCode,
		metadata:            map[string]any{},
	}, nil
}

func ReconstructPayment(
	id, userID, voucherTypeID uuid.UUID,
	amountCents int64,
	quantity int32,
	currency string,
	status Status,
	method Method,
	intentID, chargeID *string,
	discountAmountCents int64,
	discountCode *string,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) *Payment {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Payment{
		id:                  id,
		userID:              userID,
		voucherTypeID:       voucherTypeID,
		amountCents:         amountCents,
		quantity:            quantity,
		currency:            currency,
		status:              status,
		method:              method,
		intentID:            intentID,
		chargeID:            chargeID,
		discountAmountCents: discountAmountCents,
		discountCode:        discountCode,
		metadata:            metadata,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		completedAt:         completedAt,
	}
}

// TotalAmountCents is the charged amount: unit price times quantity minus the
// discount. Derived, not stored.
func (p *Payment) TotalAmountCents() int64 {
	return p.amountCents*int64(p.quantity) - p.discountAmountCents
}

// Processing returns the state after the external intent is created.
func (p *Payment) Processing(intentID string) (*Payment, error) {
	if p.status != StatusPending {
		return nil, ErrNotConfirmable
	}
	next := *p
	next.status = StatusProcessing
	next.intentID = &intentID
	return &next, nil
}

// Completed returns the completed state. A payment completes at most once;
// re-confirming an already-completed payment is rejected, not reprocessed.
func (p *Payment) Completed(now time.Time, chargeID *string) (*Payment, error) {
	if p.status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if p.status != StatusPending && p.status != StatusProcessing {
		return nil, ErrNotConfirmable
	}
	next := *p
	next.status = StatusCompleted
	next.chargeID = chargeID
	completedAt := now
	next.completedAt = &completedAt
	return &next, nil
}

func (p *Payment) IsCompleted() bool {
	return p.status == StatusCompleted
}

func (p *Payment) ID() uuid.UUID              { return p.id }
func (p *Payment) UserID() uuid.UUID          { return p.userID }
func (p *Payment) VoucherTypeID() uuid.UUID   { return p.voucherTypeID }
func (p *Payment) AmountCents() int64         { return p.amountCents }
func (p *Payment) Quantity() int32            { return p.quantity }
func (p *Payment) Currency() string           { return p.currency }
func (p *Payment) Status() Status             { return p.status }
func (p *Payment) Method() Method             { return p.method }
func (p *Payment) IntentID() *string          { return p.intentID }
func (p *Payment) ChargeID() *string          { return p.chargeID }
func (p *Payment) DiscountAmountCents() int64 { return p.discountAmountCents }
func (p *Payment) DiscountCode() *string      { return p.discountCode }
func (p *Payment) Metadata() map[string]any   { return p.metadata }
func (p *Payment) CreatedAt() time.Time       { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time       { return p.updatedAt }
func (p *Payment) CompletedAt() *time.Time    { return p.completedAt }
