package response

import (
	"time"

	"github.com/google/uuid"

	"edu-vouchers/internal/domain/payment"
	"edu-vouchers/internal/usecase/commands"
)

type PaymentIntentResponse struct {
	PaymentID        uuid.UUID `json:"payment_id"`
	ClientSecret     string    `json:"client_secret"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	DiscountCents    int64     `json:"discount_cents"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
}

type ConfirmResponse struct {
	PaymentID   uuid.UUID          `json:"payment_id"`
	Status      string             `json:"status"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Vouchers    []*VoucherResponse `json:"vouchers"`
}

type RefundResponse struct {
	ID          uuid.UUID `json:"id"`
	PaymentID   uuid.UUID `json:"payment_id"`
	AmountCents int64     `json:"amount_cents"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
}

func FromIntentResult(r *commands.CreateIntentResult) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		PaymentID:        r.Payment.ID(),
		ClientSecret:     r.ClientSecret,
		TotalAmountCents: r.Payment.TotalAmountCents(),
		DiscountCents:    r.Payment.DiscountAmountCents(),
		Currency:         r.Payment.Currency(),
		Status:           string(r.Payment.Status()),
	}
}

func FromConfirmResult(r *commands.ConfirmResult) *ConfirmResponse {
	vouchers := make([]*VoucherResponse, len(r.Vouchers))
	for i, v := range r.Vouchers {
		vouchers[i] = FromVoucher(v)
	}
	return &ConfirmResponse{
		PaymentID:   r.Payment.ID(),
		Status:      string(r.Payment.Status()),
		CompletedAt: r.Payment.CompletedAt(),
		Vouchers:    vouchers,
	}
}

func FromRefund(r *payment.Refund) *RefundResponse {
	return &RefundResponse{
		ID:          r.ID(),
		PaymentID:   r.PaymentID(),
		AmountCents: r.AmountCents(),
		Reason:      string(r.Reason()),
		Status:      string(r.Status()),
	}
}
