package shared

import (
	"context"
	"time"

	"edu-vouchers/internal/domain/discount"
	"edu-vouchers/internal/domain/payment"
	"edu-vouchers/internal/domain/voucher"

	"github.com/google/uuid"
)

// UnitOfWork scopes a read-modify-write set to a single database transaction.
// Every mutating command runs inside Within; repositories obtained from the
// Tx are bound to that transaction.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: pool-backed reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Vouchers() VoucherRepository
	Payments() PaymentRepository
	Discounts() DiscountRepository
	Reads() CommandReads
}

// CommandReads are the snapshot lookups command handlers need before or
// inside a transaction.
type CommandReads interface {
	VoucherTypeByID(ctx context.Context, id uuid.UUID) (*VoucherTypeSnapshot, error)
	DiscountByCode(ctx context.Context, code string) (*discount.Discount, error)
}

type VoucherRepository interface {
	// Create persists a new voucher; a code collision surfaces as a
	// duplicate-key repository error, never a silent overwrite.
	Create(ctx context.Context, v *voucher.Voucher) error
	// FindByCodeForUpdate locks the voucher row for the rest of the
	// transaction. The returned entity carries the type's usage limit.
	FindByCodeForUpdate(ctx context.Context, code voucher.Code) (*voucher.Voucher, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error)
	// Update writes the mutable redemption fields (status, usage_count,
	// last_used_at, metadata).
	Update(ctx context.Context, v *voucher.Voucher) error
	AppendUsage(ctx context.Context, u *voucher.Usage) error
	// ExpireOverdue flips active vouchers past their expiry to expired and
	// returns how many rows changed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	Update(ctx context.Context, p *payment.Payment) error
	// FindByIntentForUpdate locks the payment row owned by userID with the
	// given external intent reference.
	FindByIntentForUpdate(ctx context.Context, intentID string, userID uuid.UUID) (*payment.Payment, error)
	FindByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*payment.Payment, error)
	// LinkVoucher records the payment-to-voucher join created at fulfillment.
	LinkVoucher(ctx context.Context, paymentID, voucherID uuid.UUID) error
	HasRefund(ctx context.Context, paymentID uuid.UUID) (bool, error)
	CreateRefund(ctx context.Context, r *payment.Refund) error
}

type DiscountRepository interface {
	FindByCode(ctx context.Context, code string) (*discount.Discount, error)
	// Consume increments current_uses by one, guarded by max_uses in the same
	// statement. A conflict repository error means the cap was reached by a
	// concurrent payment.
	Consume(ctx context.Context, id uuid.UUID) error
}
