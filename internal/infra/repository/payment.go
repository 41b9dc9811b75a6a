package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"edu-vouchers/internal/domain/payment"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/pkg/pgconv"
	"edu-vouchers/internal/usecase/shared"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(db db.DBTX) shared.PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	metadata, err := pgconv.MapToJSONB(p.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode payment metadata", err)
	}

	const query = `
		INSERT INTO payments (
			id, user_id, voucher_type_id, amount_cents, quantity, currency,
			status, payment_method, intent_id, charge_id,
			discount_amount_cents, discount_code, metadata, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.Exec(ctx, query,
		p.ID(),
		p.UserID(),
		p.VoucherTypeID(),
		p.AmountCents(),
		p.Quantity(),
		p.Currency(),
		string(p.Status()),
		string(p.Method()),
		pgconv.StringPtrToPgtype(p.IntentID()),
		pgconv.StringPtrToPgtype(p.ChargeID()),
		p.DiscountAmountCents(),
		pgconv.StringPtrToPgtype(p.DiscountCode()),
		metadata,
		pgconv.TimePtrToPgtype(p.CompletedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	const query = `
		UPDATE payments
		SET status = $2, intent_id = $3, charge_id = $4, completed_at = $5,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		p.ID(),
		string(p.Status()),
		pgconv.StringPtrToPgtype(p.IntentID()),
		pgconv.StringPtrToPgtype(p.ChargeID()),
		pgconv.TimePtrToPgtype(p.CompletedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("payment not found", infra.KindNotFound)
	}
	return nil
}

func (r *PaymentRepository) FindByIntentForUpdate(ctx context.Context, intentID string, userID uuid.UUID) (*payment.Payment, error) {
	const query = `
		SELECT id, user_id, voucher_type_id, amount_cents, quantity, currency,
		       status, payment_method, intent_id, charge_id,
		       discount_amount_cents, discount_code, metadata,
		       created_at, updated_at, completed_at
		FROM payments
		WHERE intent_id = $1 AND user_id = $2
		FOR UPDATE`

	return r.scanPayment(ctx, query, intentID, userID)
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*payment.Payment, error) {
	const query = `
		SELECT id, user_id, voucher_type_id, amount_cents, quantity, currency,
		       status, payment_method, intent_id, charge_id,
		       discount_amount_cents, discount_code, metadata,
		       created_at, updated_at, completed_at
		FROM payments
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`

	return r.scanPayment(ctx, query, id, userID)
}

func (r *PaymentRepository) LinkVoucher(ctx context.Context, paymentID, voucherID uuid.UUID) error {
	const query = `
		INSERT INTO payment_vouchers (payment_id, voucher_id)
		VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, paymentID, voucherID)
	if err != nil {
		return infra.WrapRepoErr("failed to link voucher to payment", err)
	}
	return nil
}

func (r *PaymentRepository) HasRefund(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM refunds WHERE payment_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, paymentID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check refund existence", err)
	}
	return exists, nil
}

func (r *PaymentRepository) CreateRefund(ctx context.Context, ref *payment.Refund) error {
	const query = `
		INSERT INTO refunds (
			id, payment_id, amount_cents, reason, status, refund_ref,
			processed_by, admin_notes, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		ref.ID(),
		ref.PaymentID(),
		ref.AmountCents(),
		string(ref.Reason()),
		string(ref.Status()),
		pgconv.StringPtrToPgtype(ref.RefundRef()),
		ref.ProcessedBy(),
		ref.AdminNotes(),
		pgconv.TimePtrToPgtype(ref.ProcessedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create refund", err)
	}
	return nil
}

func (r *PaymentRepository) scanPayment(ctx context.Context, query string, args ...any) (*payment.Payment, error) {
	var (
		id, userID, typeID             uuid.UUID
		amountCents                    int64
		quantity                       int32
		currency, rawStatus, rawMethod string
		intentID, chargeID             pgtype.Text
		discountAmountCents            int64
		discountCode                   pgtype.Text
		rawMetadata                    []byte
		createdAt, updatedAt           time.Time
		completedAt                    pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&id, &userID, &typeID, &amountCents, &quantity, &currency,
		&rawStatus, &rawMethod, &intentID, &chargeID,
		&discountAmountCents, &discountCode, &rawMetadata,
		&createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	metadata, err := pgconv.MapFromJSONB(rawMetadata)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode payment metadata", err)
	}

	return payment.ReconstructPayment(
		id, userID, typeID,
		amountCents,
		quantity,
		currency,
		payment.Status(rawStatus),
		payment.Method(rawMethod),
		pgconv.StringPtrFromPgtype(intentID),
		pgconv.StringPtrFromPgtype(chargeID),
		discountAmountCents,
		pgconv.StringPtrFromPgtype(discountCode),
		metadata,
		createdAt, updatedAt,
		pgconv.TimePtrFromPgtype(completedAt),
	), nil
}
