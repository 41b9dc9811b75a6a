package commands

import (
	"context"
	"strings"

	"edu-vouchers/internal/domain/discount"
	"edu-vouchers/internal/domain/payment"
	"edu-vouchers/internal/domain/voucher"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/pkg/clock"
	"edu-vouchers/internal/pkg/errs"
	"edu-vouchers/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity         = errs.New("quantity out of range")
	ErrUnsupportedMethod       = errs.New("payment method not supported")
	ErrUnknownDiscount         = errs.New("discount code not found")
	ErrDiscountNotApplicable   = errs.New("discount not applicable")
	ErrDiscountExhausted       = errs.New("discount use cap reached")
	ErrGatewayFailure          = errs.New("payment gateway failure")
	ErrPaymentNotSuccessful    = errs.New("payment not successful")
	ErrPaymentNotFound         = errs.New("payment not found")
	ErrPaymentAlreadyCompleted = errs.New("payment already completed")
	ErrPaymentNotConfirmable   = errs.New("payment cannot be confirmed from its current status")
	ErrPaymentNotCompleted     = errs.New("payment not completed")
	ErrRefundAlreadyExists     = errs.New("refund already requested")
	ErrInvalidRefundAmount     = errs.New("invalid refund amount")
)

type CreateIntentParams struct {
	UserID        uuid.UUID
	VoucherTypeID uuid.UUID
	Quantity      int32
	DiscountCode  *string
	Method        string
	Currency      string
}

type CreateIntentResult struct {
	Payment      *payment.Payment
	ClientSecret string
}

type ConfirmResult struct {
	Payment  *payment.Payment
	Vouchers []*voucher.Voucher
}

type RefundParams struct {
	UserID      uuid.UUID
	PaymentID   uuid.UUID
	Reason      string
	AmountCents *int64
	Notes       string
}

type PaymentCommands interface {
	// CreateIntent prices the purchase, records a pending payment and opens
	// an intent at the processor. Gateway failures roll the payment row back.
	CreateIntent(ctx context.Context, params CreateIntentParams) (*CreateIntentResult, error)
	// Confirm converts a succeeded intent into vouchers. Completing the
	// payment, minting quantity vouchers, linking them and consuming the
	// discount is one transaction; calling twice never mints twice.
	Confirm(ctx context.Context, userID uuid.UUID, intentID string) (*ConfirmResult, error)
	RequestRefund(ctx context.Context, params RefundParams) (*payment.Refund, error)
}

type paymentCommandsImpl struct {
	uow         shared.UnitOfWork
	gateway     PaymentGateway
	clock       clock.Clock
	maxQuantity int32
}

func NewPaymentCommands(uow shared.UnitOfWork, gateway PaymentGateway, clock clock.Clock, maxQuantity int) PaymentCommands {
	return &paymentCommandsImpl{
		uow:         uow,
		gateway:     gateway,
		clock:       clock,
		maxQuantity: int32(maxQuantity),
	}
}

func (p *paymentCommandsImpl) CreateIntent(ctx context.Context, params CreateIntentParams) (*CreateIntentResult, error) {
	if params.Quantity < 1 || params.Quantity > p.maxQuantity {
		return nil, ErrInvalidQuantity
	}

	method := payment.Method(params.Method)
	if method != payment.MethodStripe {
		return nil, ErrUnsupportedMethod
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}

	typeSnap, err := p.resolveActiveType(ctx, params.VoucherTypeID)
	if err != nil {
		return nil, err
	}

	finalCents := typeSnap.PriceCents * int64(params.Quantity)
	var discountCents int64
	if params.DiscountCode != nil {
		finalCents, discountCents, err = p.applyDiscount(ctx, typeSnap, params.Quantity, *params.DiscountCode)
		if err != nil {
			return nil, err
		}
	}

	pending, err := payment.NewPayment(
		params.UserID,
		typeSnap.ID,
		typeSnap.PriceCents,
		params.Quantity,
		currency,
		method,
		discountCents,
		normalizedCodePtr(params.DiscountCode),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var result *CreateIntentResult
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Payments().Create(ctx, pending); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// The gateway call sits inside the transaction so a processor error
		// leaves no payment row behind.
		intent, err := p.gateway.CreateIntent(ctx, finalCents, currency, map[string]string{
			"payment_id":   pending.ID().String(),
			"user_id":      params.UserID.String(),
			"voucher_type": typeSnap.Name,
		})
		if err != nil {
			return errs.Mark(err, ErrGatewayFailure)
		}

		processing, err := pending.Processing(intent.ID)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if err := tx.Payments().Update(ctx, processing); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &CreateIntentResult{Payment: processing, ClientSecret: intent.ClientSecret}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *paymentCommandsImpl) Confirm(ctx context.Context, userID uuid.UUID, intentID string) (*ConfirmResult, error) {
	intent, err := p.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}
	if intent.State != IntentSucceeded {
		return nil, ErrPaymentNotSuccessful
	}

	var result *ConfirmResult
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Payments().FindByIntentForUpdate(ctx, intentID, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		completed, err := current.Completed(p.clock.Now(), intent.ChargeRef)
		if err != nil {
			if errs.Is(err, payment.ErrAlreadyCompleted) {
				return ErrPaymentAlreadyCompleted
			}
			return ErrPaymentNotConfirmable
		}
		if err := tx.Payments().Update(ctx, completed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		typeSnap, err := tx.Reads().VoucherTypeByID(ctx, completed.VoucherTypeID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		transactionRef := completed.ID().String()
		vouchers := make([]*voucher.Voucher, 0, completed.Quantity())
		for i := int32(0); i < completed.Quantity(); i++ {
			minted, err := mintVoucher(ctx, tx, typeSnap.Spec(), completed.UserID(), &transactionRef, p.clock.Now())
			if err != nil {
				return err
			}
			if err := tx.Payments().LinkVoucher(ctx, completed.ID(), minted.ID()); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			vouchers = append(vouchers, minted)
		}

		if completed.DiscountCode() != nil {
			if err := p.consumeDiscount(ctx, tx, *completed.DiscountCode()); err != nil {
				return err
			}
		}

		result = &ConfirmResult{Payment: completed, Vouchers: vouchers}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *paymentCommandsImpl) RequestRefund(ctx context.Context, params RefundParams) (*payment.Refund, error) {
	reason := payment.RefundReason(params.Reason)
	if !reason.IsValid() {
		return nil, errs.Mark(payment.ErrInvalidRefundReason, ErrDomainValidation)
	}

	var refund *payment.Refund
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Payments().FindByIDForUpdate(ctx, params.PaymentID, params.UserID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		exists, err := tx.Payments().HasRefund(ctx, current.ID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if exists {
			return ErrRefundAlreadyExists
		}

		refund, err = payment.NewRefund(current, params.AmountCents, reason, params.Notes)
		if err != nil {
			switch {
			case errs.Is(err, payment.ErrPaymentNotCompleted):
				return ErrPaymentNotCompleted
			case errs.Is(err, payment.ErrInvalidRefundAmount):
				return ErrInvalidRefundAmount
			default:
				return errs.Mark(err, ErrDomainValidation)
			}
		}

		if err := tx.Payments().CreateRefund(ctx, refund); err != nil {
			// The one-refund-per-payment constraint backs the HasRefund check.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrRefundAlreadyExists
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

func (p *paymentCommandsImpl) resolveActiveType(ctx context.Context, id uuid.UUID) (*shared.VoucherTypeSnapshot, error) {
	typeSnap, err := p.uow.CommandReads().VoucherTypeByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidVoucherType
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !typeSnap.IsActive {
		return nil, ErrInvalidVoucherType
	}
	return typeSnap, nil
}

func (p *paymentCommandsImpl) applyDiscount(ctx context.Context, typeSnap *shared.VoucherTypeSnapshot, quantity int32, rawCode string) (finalCents, discountCents int64, err error) {
	code, err := discount.NewCode(rawCode)
	if err != nil {
		return 0, 0, ErrUnknownDiscount
	}

	d, err := p.uow.CommandReads().DiscountByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return 0, 0, ErrUnknownDiscount
		}
		return 0, 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	finalCents, discountCents, err = d.Quote(p.clock.Now(), typeSnap.ID, typeSnap.PriceCents, quantity)
	if err != nil {
		return 0, 0, errs.Mark(err, ErrDiscountNotApplicable)
	}
	return finalCents, discountCents, nil
}

// consumeDiscount increments the code's use count exactly once for this
// payment. A missing code is tolerated (it may have been deactivated since
// purchase); an exhausted cap aborts the confirmation.
func (p *paymentCommandsImpl) consumeDiscount(ctx context.Context, tx shared.Tx, code string) error {
	d, err := tx.Discounts().FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Discounts().Consume(ctx, d.ID()); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return ErrDiscountExhausted
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func normalizedCodePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	code, err := discount.NewCode(*raw)
	if err != nil {
		return nil
	}
	s := code.String()
	return &s
}
