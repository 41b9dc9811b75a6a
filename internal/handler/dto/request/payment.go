package request

import "github.com/google/uuid"

type CreateIntentRequest struct {
	VoucherTypeID uuid.UUID `json:"voucher_type_id" binding:"required"`
	Quantity      int32     `json:"quantity" binding:"required,min=1"`
	DiscountCode  *string   `json:"discount_code"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Currency      string    `json:"currency"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
	// AmountCents defaults to the full charged amount when omitted.
	AmountCents *int64 `json:"amount_cents"`
	Notes       string `json:"notes"`
}
