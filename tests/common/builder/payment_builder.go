//go:build unit

package builder

import (
	"time"

	dompayment "edu-vouchers/internal/domain/payment"
	reqdto "edu-vouchers/internal/handler/dto/request"
	"edu-vouchers/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	UserID        uuid.UUID
	VoucherTypeID uuid.UUID
	TypeName      string
	UnitCents     int64
	Quantity      int32
	Currency      string
	Method        dompayment.Method
	DiscountCents int64
	DiscountCode  *string
	IntentID      string
	CreatedAt     time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		UserID:        uuid.New(),
		VoucherTypeID: uuid.New(),
		TypeName:      "Result Check",
		UnitCents:     1500,
		Quantity:      2,
		Currency:      "USD",
		Method:        dompayment.MethodStripe,
		IntentID:      "pi_test_123",
		CreatedAt:     time.Now(),
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *PaymentBuilder) BuildDomain() (*dompayment.Payment, error) {
	return dompayment.NewPayment(
		b.UserID, b.VoucherTypeID,
		b.UnitCents, b.Quantity, b.Currency, b.Method,
		b.DiscountCents, b.DiscountCode,
	)
}

// BuildProcessing returns a payment waiting on its external intent.
func (b *PaymentBuilder) BuildProcessing() (*dompayment.Payment, error) {
	pending, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	return pending.Processing(b.IntentID)
}

// BuildCompleted returns a payment past confirmation.
func (b *PaymentBuilder) BuildCompleted(now time.Time) (*dompayment.Payment, error) {
	processing, err := b.BuildProcessing()
	if err != nil {
		return nil, err
	}
	chargeID := "ch_test_123"
	return processing.Completed(now, &chargeID)
}

func (b *PaymentBuilder) BuildView() *queries.PaymentView {
	intentID := b.IntentID
	return &queries.PaymentView{
		ID:                  uuid.New(),
		UserID:              b.UserID,
		VoucherTypeID:       b.VoucherTypeID,
		TypeName:            b.TypeName,
		AmountCents:         b.UnitCents,
		Quantity:            b.Quantity,
		DiscountAmountCents: b.DiscountCents,
		TotalAmountCents:    b.UnitCents*int64(b.Quantity) - b.DiscountCents,
		Currency:            b.Currency,
		Status:              dompayment.StatusProcessing.String(),
		Method:              b.Method.String(),
		IntentID:            &intentID,
		DiscountCode:        b.DiscountCode,
		CreatedAt:           b.CreatedAt,
	}
}

func (b *PaymentBuilder) BuildCreateIntentRequestDTO() reqdto.CreateIntentRequest {
	return reqdto.CreateIntentRequest{
		VoucherTypeID: b.VoucherTypeID,
		Quantity:      b.Quantity,
		DiscountCode:  b.DiscountCode,
		PaymentMethod: b.Method.String(),
		Currency:      b.Currency,
	}
}

func (b *PaymentBuilder) BuildConfirmRequestDTO() reqdto.ConfirmPaymentRequest {
	return reqdto.ConfirmPaymentRequest{
		PaymentIntentID: b.IntentID,
	}
}

func (b *PaymentBuilder) BuildRefundRequestDTO() reqdto.RefundRequest {
	return reqdto.RefundRequest{
		Reason: dompayment.ReasonCustomerRequest.String(),
		Notes:  "requested via support",
	}
}

// Fluent builder methods
func (b *PaymentBuilder) WithUserID(userID uuid.UUID) *PaymentBuilder {
	b.UserID = userID
	return b
}

func (b *PaymentBuilder) WithQuantity(quantity int32) *PaymentBuilder {
	b.Quantity = quantity
	return b
}

func (b *PaymentBuilder) WithDiscount(cents int64, code string) *PaymentBuilder {
	b.DiscountCents = cents
	b.DiscountCode = &code
	return b
}

func (b *PaymentBuilder) WithMethod(method dompayment.Method) *PaymentBuilder {
	b.Method = method
	return b
}
