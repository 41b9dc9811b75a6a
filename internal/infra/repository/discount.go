package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"edu-vouchers/internal/domain/discount"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/pkg/pgconv"
	"edu-vouchers/internal/usecase/shared"
)

type DiscountRepository struct {
	db db.DBTX
}

func NewDiscountRepository(db db.DBTX) shared.DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Discount, error) {
	const query = `
		SELECT id, code, description, discount_type, discount_value,
		       applicable_types, max_uses, current_uses, max_uses_per_user,
		       valid_from, valid_until, is_active, created_at
		FROM discount_codes
		WHERE code = $1`

	var (
		id                    uuid.UUID
		rawCode               string
		description           string
		rawKind               string
		rawValue              float64
		applicableTypes       []uuid.UUID
		maxUses               pgtype.Int4
		currentUses           int32
		maxUsesPerUser        int32
		validFrom, validUntil time.Time
		isActive              bool
		createdAt             time.Time
	)

	err := r.db.QueryRow(ctx, query, code).Scan(
		&id, &rawCode, &description, &rawKind, &rawValue,
		&applicableTypes, &maxUses, &currentUses, &maxUsesPerUser,
		&validFrom, &validUntil, &isActive, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("discount code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find discount code", err)
	}

	parsedCode, err := discount.NewCode(rawCode)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert discount code", err)
	}
	value, err := discount.NewValue(discount.Kind(rawKind), rawValue)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert discount value", err)
	}

	return discount.ReconstructDiscount(
		id,
		parsedCode,
		description,
		value,
		applicableTypes,
		pgconv.Int32PtrFromPgtype(maxUses),
		currentUses, maxUsesPerUser,
		validFrom, validUntil,
		isActive,
		createdAt,
	), nil
}

// Consume increments the use counter. The cap check lives in the statement so
// two concurrent payments cannot both take the last use.
func (r *DiscountRepository) Consume(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE discount_codes
		SET current_uses = current_uses + 1
		WHERE id = $1
		  AND (max_uses IS NULL OR current_uses < max_uses)`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to consume discount code", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("discount code use cap reached", infra.KindConflict)
	}
	return nil
}
