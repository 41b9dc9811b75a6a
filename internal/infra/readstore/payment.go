package readstore

import (
	"context"

	"github.com/google/uuid"

	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/pkg/pgconv"
	"edu-vouchers/internal/usecase/queries"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(db db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: db}
}

func (s *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	const query = `
		SELECT p.id, p.user_id, p.voucher_type_id, t.name, p.amount_cents,
		       p.quantity, p.discount_amount_cents,
		       p.amount_cents * p.quantity - p.discount_amount_cents,
		       p.currency, p.status, p.payment_method, p.intent_id,
		       p.discount_code, p.created_at, p.completed_at
		FROM payments p
		JOIN voucher_types t ON t.id = p.voucher_type_id
		WHERE p.id = $1`

	var v queries.PaymentView
	err := s.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.VoucherTypeID, &v.TypeName, &v.AmountCents,
		&v.Quantity, &v.DiscountAmountCents, &v.TotalAmountCents,
		&v.Currency, &v.Status, &v.Method, &v.IntentID,
		&v.DiscountCode, &v.CreatedAt, &v.CompletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	const voucherQuery = `
		SELECT voucher_id
		FROM payment_vouchers
		WHERE payment_id = $1`

	rows, err := s.db.Query(ctx, voucherQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payment vouchers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var voucherID uuid.UUID
		if err := rows.Scan(&voucherID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment voucher row", err)
		}
		v.VoucherIDs = append(v.VoucherIDs, voucherID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payment voucher rows", err)
	}
	return &v, nil
}

func (s *PaymentReadStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*queries.PaymentListItem, error) {
	const query = `
		SELECT p.id, t.name, p.quantity,
		       p.amount_cents * p.quantity - p.discount_amount_cents,
		       p.currency, p.status, p.payment_method, p.created_at,
		       p.completed_at
		FROM payments p
		JOIN voucher_types t ON t.id = p.voucher_type_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments by user", err)
	}
	defer rows.Close()

	var items []*queries.PaymentListItem
	for rows.Next() {
		var item queries.PaymentListItem
		if err := rows.Scan(
			&item.ID, &item.TypeName, &item.Quantity, &item.TotalAmountCents,
			&item.Currency, &item.Status, &item.Method, &item.CreatedAt,
			&item.CompletedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payment rows", err)
	}
	return items, nil
}

func (s *PaymentReadStore) RefundsByPayment(ctx context.Context, paymentID uuid.UUID) ([]*queries.RefundView, error) {
	const query = `
		SELECT id, payment_id, amount_cents, reason, status, admin_notes,
		       created_at, processed_at
		FROM refunds
		WHERE payment_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list refunds", err)
	}
	defer rows.Close()

	var views []*queries.RefundView
	for rows.Next() {
		var v queries.RefundView
		if err := rows.Scan(
			&v.ID, &v.PaymentID, &v.AmountCents, &v.Reason, &v.Status,
			&v.AdminNotes, &v.CreatedAt, &v.ProcessedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan refund row", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read refund rows", err)
	}
	return views, nil
}

var _ queries.PaymentReadStore = (*PaymentReadStore)(nil)
