package readstore

import (
	"context"

	"github.com/google/uuid"

	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/pkg/pgconv"
	"edu-vouchers/internal/usecase/queries"
	"edu-vouchers/internal/usecase/shared"
)

type VoucherReadStore struct {
	db db.DBTX
}

func NewVoucherReadStore(db db.DBTX) *VoucherReadStore {
	return &VoucherReadStore{db: db}
}

func (s *VoucherReadStore) ListTypes(ctx context.Context, includeInactive bool) ([]*queries.VoucherTypeView, error) {
	const query = `
		SELECT id, name, type_code, description, price_cents, validity_days,
		       usage_limit, is_active, created_at, updated_at
		FROM voucher_types
		WHERE is_active OR $1
		ORDER BY price_cents, name`

	rows, err := s.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list voucher types", err)
	}
	defer rows.Close()

	var views []*queries.VoucherTypeView
	for rows.Next() {
		var v queries.VoucherTypeView
		if err := rows.Scan(
			&v.ID, &v.Name, &v.TypeCode, &v.Description, &v.PriceCents,
			&v.ValidityDays, &v.UsageLimit, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan voucher type row", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read voucher type rows", err)
	}
	return views, nil
}

// SnapshotTypeByID feeds command-side validation and voucher minting.
func (s *VoucherReadStore) SnapshotTypeByID(ctx context.Context, id uuid.UUID) (*shared.VoucherTypeSnapshot, error) {
	const query = `
		SELECT id, name, type_code, price_cents, validity_days, usage_limit,
		       is_active
		FROM voucher_types
		WHERE id = $1`

	var snap shared.VoucherTypeSnapshot
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Name, &snap.TypeCode, &snap.PriceCents,
		&snap.ValidityDays, &snap.UsageLimit, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voucher type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voucher type", err)
	}
	return &snap, nil
}

func (s *VoucherReadStore) FindByCode(ctx context.Context, code string) (*queries.VoucherView, error) {
	const query = `
		SELECT v.id, v.code, v.voucher_type_id, t.name, t.type_code, v.user_id,
		       v.status, v.usage_count, t.usage_limit, v.purchased_at,
		       v.expires_at, v.last_used_at, v.metadata
		FROM vouchers v
		JOIN voucher_types t ON t.id = v.voucher_type_id
		WHERE v.code = $1`

	var (
		v           queries.VoucherView
		rawMetadata []byte
	)
	err := s.db.QueryRow(ctx, query, code).Scan(
		&v.ID, &v.Code, &v.VoucherTypeID, &v.TypeName, &v.TypeCode, &v.UserID,
		&v.Status, &v.UsageCount, &v.UsageLimit, &v.PurchasedAt,
		&v.ExpiresAt, &v.LastUsedAt, &rawMetadata,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voucher by code", err)
	}

	v.Metadata, err = pgconv.MapFromJSONB(rawMetadata)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode voucher metadata", err)
	}
	return &v, nil
}

func (s *VoucherReadStore) FindByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*queries.VoucherListItem, error) {
	const query = `
		SELECT v.id, v.code, t.name, t.type_code, v.status, v.usage_count,
		       t.usage_limit, v.purchased_at, v.expires_at, v.last_used_at
		FROM vouchers v
		JOIN voucher_types t ON t.id = v.voucher_type_id
		WHERE v.user_id = $1
		  AND ($2::text IS NULL OR v.status = $2)
		ORDER BY v.purchased_at DESC`

	rows, err := s.db.Query(ctx, query, userID, status)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list vouchers by user", err)
	}
	defer rows.Close()

	var items []*queries.VoucherListItem
	for rows.Next() {
		var item queries.VoucherListItem
		if err := rows.Scan(
			&item.ID, &item.Code, &item.TypeName, &item.TypeCode, &item.Status,
			&item.UsageCount, &item.UsageLimit, &item.PurchasedAt,
			&item.ExpiresAt, &item.LastUsedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan voucher row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read voucher rows", err)
	}
	return items, nil
}

func (s *VoucherReadStore) VoucherOwner(ctx context.Context, voucherID uuid.UUID) (uuid.UUID, error) {
	const query = `SELECT user_id FROM vouchers WHERE id = $1`

	var owner uuid.UUID
	if err := s.db.QueryRow(ctx, query, voucherID).Scan(&owner); err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to find voucher owner", err)
	}
	return owner, nil
}

func (s *VoucherReadStore) UsagesByVoucher(ctx context.Context, voucherID uuid.UUID) ([]*queries.VoucherUsageView, error) {
	const query = `
		SELECT id, voucher_id, used_by, service_type, service_data, used_at,
		       ip_address, user_agent
		FROM voucher_usages
		WHERE voucher_id = $1
		ORDER BY used_at DESC`

	rows, err := s.db.Query(ctx, query, voucherID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list voucher usages", err)
	}
	defer rows.Close()

	var views []*queries.VoucherUsageView
	for rows.Next() {
		var (
			v       queries.VoucherUsageView
			rawData []byte
		)
		if err := rows.Scan(
			&v.ID, &v.VoucherID, &v.UsedBy, &v.ServiceType, &rawData,
			&v.UsedAt, &v.IPAddress, &v.UserAgent,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan usage row", err)
		}
		v.ServiceData, err = pgconv.MapFromJSONB(rawData)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to decode usage service data", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read usage rows", err)
	}
	return views, nil
}

func (s *VoucherReadStore) Stats(ctx context.Context) (*queries.VoucherStatsView, error) {
	stats := &queries.VoucherStatsView{ByStatus: map[string]int64{}}

	const byStatusQuery = `
		SELECT status, count(*)
		FROM vouchers
		GROUP BY status`

	rows, err := s.db.Query(ctx, byStatusQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate voucher stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan stats row", err)
		}
		stats.ByStatus[status] = count
		stats.TotalVouchers += count
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read stats rows", err)
	}

	const totalsQuery = `
		SELECT
			(SELECT count(*) FROM voucher_usages),
			COALESCE((
				SELECT sum(amount_cents * quantity - discount_amount_cents)
				FROM payments
				WHERE status = 'completed'
			), 0)`

	if err := s.db.QueryRow(ctx, totalsQuery).Scan(&stats.TotalUsages, &stats.RevenueCents); err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate usage totals", err)
	}
	return stats, nil
}

func (s *VoucherReadStore) StatsByUser(ctx context.Context, userID uuid.UUID) (*queries.UserVoucherStatsView, error) {
	const query = `
		SELECT
			count(*),
			count(*) FILTER (WHERE v.status = 'active'),
			count(*) FILTER (WHERE v.status = 'used'),
			count(*) FILTER (WHERE v.status = 'expired'),
			COALESCE(sum(t.price_cents), 0)
		FROM vouchers v
		JOIN voucher_types t ON t.id = v.voucher_type_id
		WHERE v.user_id = $1`

	stats := &queries.UserVoucherStatsView{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&stats.TotalVouchers,
		&stats.ActiveVouchers,
		&stats.UsedVouchers,
		&stats.ExpiredVouchers,
		&stats.TotalValueCents,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate user voucher stats", err)
	}
	return stats, nil
}

var _ queries.VoucherReadStore = (*VoucherReadStore)(nil)
