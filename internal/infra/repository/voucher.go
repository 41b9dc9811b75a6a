package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"edu-vouchers/internal/domain/voucher"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/pkg/pgconv"
	"edu-vouchers/internal/usecase/shared"
)

type VoucherRepository struct {
	db db.DBTX
}

func NewVoucherRepository(db db.DBTX) shared.VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) Create(ctx context.Context, v *voucher.Voucher) error {
	metadata, err := pgconv.MapToJSONB(v.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode voucher metadata", err)
	}

	const query = `
		INSERT INTO vouchers (
			id, code, voucher_type_id, user_id, status, usage_count,
			purchased_at, expires_at, transaction_id, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.Exec(ctx, query,
		v.ID(),
		v.Code().String(),
		v.TypeID(),
		v.UserID(),
		string(v.Status()),
		v.UsageCount(),
		v.IssuedAt(),
		v.ExpiresAt(),
		pgconv.StringPtrToPgtype(v.TransactionID()),
		metadata,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create voucher", err)
	}
	return nil
}

func (r *VoucherRepository) FindByCodeForUpdate(ctx context.Context, code voucher.Code) (*voucher.Voucher, error) {
	// FOR UPDATE OF v: the joined type row is read-only here, locking it
	// would serialize unrelated redemptions of the same type.
	const query = `
		SELECT v.id, v.voucher_type_id, v.user_id, v.code, v.status,
		       v.usage_count, t.usage_limit, v.last_used_at, v.purchased_at,
		       v.expires_at, v.transaction_id, v.metadata
		FROM vouchers v
		JOIN voucher_types t ON t.id = v.voucher_type_id
		WHERE v.code = $1
		FOR UPDATE OF v`

	return r.scanVoucher(ctx, query, code.String())
}

func (r *VoucherRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	const query = `
		SELECT v.id, v.voucher_type_id, v.user_id, v.code, v.status,
		       v.usage_count, t.usage_limit, v.last_used_at, v.purchased_at,
		       v.expires_at, v.transaction_id, v.metadata
		FROM vouchers v
		JOIN voucher_types t ON t.id = v.voucher_type_id
		WHERE v.id = $1
		FOR UPDATE OF v`

	return r.scanVoucher(ctx, query, id)
}

func (r *VoucherRepository) Update(ctx context.Context, v *voucher.Voucher) error {
	metadata, err := pgconv.MapToJSONB(v.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode voucher metadata", err)
	}

	const query = `
		UPDATE vouchers
		SET status = $2, usage_count = $3, last_used_at = $4, metadata = $5,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		v.ID(),
		string(v.Status()),
		v.UsageCount(),
		pgconv.TimePtrToPgtype(v.LastUsedAt()),
		metadata,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update voucher", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("voucher not found", infra.KindNotFound)
	}
	return nil
}

func (r *VoucherRepository) AppendUsage(ctx context.Context, u *voucher.Usage) error {
	serviceData, err := pgconv.MapToJSONB(u.ServiceData())
	if err != nil {
		return infra.WrapRepoErr("failed to encode usage service data", err)
	}

	const query = `
		INSERT INTO voucher_usages (
			id, voucher_id, used_by, service_type, service_data, used_at,
			ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		u.ID(),
		u.VoucherID(),
		u.UserID(),
		u.ServiceType(),
		serviceData,
		u.UsedAt(),
		pgconv.StringPtrToPgtype(u.Client().IPAddress),
		pgconv.StringPtrToPgtype(u.Client().UserAgent),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append voucher usage", err)
	}
	return nil
}

func (r *VoucherRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	const query = `
		UPDATE vouchers
		SET status = $1, updated_at = now()
		WHERE status = $2 AND expires_at < $3`

	tag, err := r.db.Exec(ctx, query,
		string(voucher.StatusExpired),
		string(voucher.StatusActive),
		now,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire overdue vouchers", err)
	}
	return tag.RowsAffected(), nil
}

func (r *VoucherRepository) scanVoucher(ctx context.Context, query string, arg any) (*voucher.Voucher, error) {
	var (
		id, typeID, userID uuid.UUID
		rawCode, rawStatus string
		usageCount         int32
		usageLimit         int32
		lastUsedAt         pgtype.Timestamptz
		purchasedAt        time.Time
		expiresAt          time.Time
		transactionID      pgtype.Text
		rawMetadata        []byte
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &typeID, &userID, &rawCode, &rawStatus,
		&usageCount, &usageLimit, &lastUsedAt, &purchasedAt,
		&expiresAt, &transactionID, &rawMetadata,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voucher", err)
	}

	code, err := voucher.NewCode(rawCode)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert voucher code", err)
	}
	metadata, err := pgconv.MapFromJSONB(rawMetadata)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode voucher metadata", err)
	}

	return voucher.ReconstructVoucher(
		id, typeID, userID,
		code,
		voucher.Status(rawStatus),
		usageCount, usageLimit,
		pgconv.TimePtrFromPgtype(lastUsedAt),
		purchasedAt, expiresAt,
		pgconv.StringPtrFromPgtype(transactionID),
		voucher.Metadata(metadata),
	), nil
}
