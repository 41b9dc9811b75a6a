package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotCompleted = errors.New("payment is not completed")
	ErrInvalidRefundReason = errors.New("invalid refund reason")
	ErrInvalidRefundAmount = errors.New("refund amount must be positive and within the payment total")
)

// Refund is the one-to-one refund request against a completed payment.
type Refund struct {
	id          uuid.UUID
	paymentID   uuid.UUID
	amountCents int64
	reason      RefundReason
	status      RefundStatus
	refundRef   *string
	processedBy *uuid.UUID
	adminNotes  string
	createdAt   time.Time
	processedAt *time.Time
}

// NewRefund validates the request against its payment. A nil amount defaults
// to the payment's total.
func NewRefund(p *Payment, amountCents *int64, reason RefundReason, adminNotes string) (*Refund, error) {
	if !p.IsCompleted() {
		return nil, ErrPaymentNotCompleted
	}
	if !reason.IsValid() {
		return nil, ErrInvalidRefundReason
	}

	amount := p.TotalAmountCents()
	if amountCents != nil {
		amount = *amountCents
	}
	// A payment whose total was clamped to zero by a fixed discount has
	// nothing to refund, so it never passes this check.
	if amount <= 0 || amount > p.TotalAmountCents() {
		return nil, ErrInvalidRefundAmount
	}

	return &Refund{
		id:          uuid.New(),
		paymentID:   p.ID(),
		amountCents: amount,
		reason:      reason,
		status:      RefundPending,
		adminNotes:  adminNotes,
	}, nil
}

func ReconstructRefund(
	id, paymentID uuid.UUID,
	amountCents int64,
	reason RefundReason,
	status RefundStatus,
	refundRef *string,
	processedBy *uuid.UUID,
	adminNotes string,
	createdAt time.Time,
	processedAt *time.Time,
) *Refund {
	return &Refund{
		id:          id,
		paymentID:   paymentID,
		amountCents: amountCents,
		reason:      reason,
		status:      status,
		refundRef:   refundRef,
		processedBy: processedBy,
		adminNotes:  adminNotes,
		createdAt:   createdAt,
		processedAt: processedAt,
	}
}

func (r *Refund) ID() uuid.UUID           { return r.id }
func (r *Refund) PaymentID() uuid.UUID    { return r.paymentID }
func (r *Refund) AmountCents() int64      { return r.amountCents }
func (r *Refund) Reason() RefundReason    { return r.reason }
func (r *Refund) Status() RefundStatus    { return r.status }
func (r *Refund) RefundRef() *string      { return r.refundRef }
func (r *Refund) ProcessedBy() *uuid.UUID { return r.processedBy }
func (r *Refund) AdminNotes() string      { return r.adminNotes }
func (r *Refund) CreatedAt() time.Time    { return r.createdAt }
func (r *Refund) ProcessedAt() *time.Time { return r.processedAt }
