package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"edu-vouchers/internal/domain/user"
	"edu-vouchers/internal/domain/voucher"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/pkg/errs"
)

var (
	ErrVoucherViewNotFound = errs.New("voucher not found")
	ErrVoucherAccessDenied = errs.New("voucher access denied")
)

// Read models (DTO for read side)
type VoucherTypeView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TypeCode     string    `json:"type_code"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	ValidityDays int32     `json:"validity_days"`
	UsageLimit   int32     `json:"usage_limit"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type VoucherView struct {
	ID            uuid.UUID      `json:"id"`
	Code          string         `json:"code"`
	VoucherTypeID uuid.UUID      `json:"voucher_type_id"`
	TypeName      string         `json:"type_name"`
	TypeCode      string         `json:"type_code"`
	UserID        uuid.UUID      `json:"user_id"`
	Status        string         `json:"status"`
	UsageCount    int32          `json:"usage_count"`
	UsageLimit    int32          `json:"usage_limit"`
	PurchasedAt   time.Time      `json:"purchased_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
	LastUsedAt    *time.Time     `json:"last_used_at,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type VoucherListItem struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	TypeName    string     `json:"type_name"`
	TypeCode    string     `json:"type_code"`
	Status      string     `json:"status"`
	UsageCount  int32      `json:"usage_count"`
	UsageLimit  int32      `json:"usage_limit"`
	PurchasedAt time.Time  `json:"purchased_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

type VoucherUsageView struct {
	ID          uuid.UUID      `json:"id"`
	VoucherID   uuid.UUID      `json:"voucher_id"`
	UsedBy      uuid.UUID      `json:"used_by"`
	ServiceType string         `json:"service_type"`
	ServiceData map[string]any `json:"service_data,omitempty"`
	UsedAt      time.Time      `json:"used_at"`
	IPAddress   *string        `json:"ip_address,omitempty"`
	UserAgent   *string        `json:"user_agent,omitempty"`
}

// VoucherStatsView aggregates ledger counts for the admin dashboard.
type VoucherStatsView struct {
	TotalVouchers int64            `json:"total_vouchers"`
	ByStatus      map[string]int64 `json:"by_status"`
	TotalUsages   int64            `json:"total_usages"`
	RevenueCents  int64            `json:"revenue_cents"`
}

// UserVoucherStatsView summarizes one holder's own vouchers.
type UserVoucherStatsView struct {
	TotalVouchers   int64 `json:"total_vouchers"`
	ActiveVouchers  int64 `json:"active_vouchers"`
	UsedVouchers    int64 `json:"used_vouchers"`
	ExpiredVouchers int64 `json:"expired_vouchers"`
	TotalValueCents int64 `json:"total_value_cents"`
}

type VoucherQueries interface {
	// ListTypes returns the purchasable catalog. Admins may include
	// deactivated entries.
	ListTypes(ctx context.Context, includeInactive bool) ([]*VoucherTypeView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*VoucherListItem, error)
	// GetByCode is owner-or-admin: holders check their own vouchers, staff
	// check any.
	GetByCode(ctx context.Context, actorID uuid.UUID, actorRole user.Role, code string) (*VoucherView, error)
	ListUsages(ctx context.Context, actorID uuid.UUID, actorRole user.Role, voucherID uuid.UUID) ([]*VoucherUsageView, error)
	Stats(ctx context.Context) (*VoucherStatsView, error)
	StatsByUser(ctx context.Context, userID uuid.UUID) (*UserVoucherStatsView, error)
}

type VoucherReadStore interface {
	ListTypes(ctx context.Context, includeInactive bool) ([]*VoucherTypeView, error)
	FindByCode(ctx context.Context, code string) (*VoucherView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*VoucherListItem, error)
	VoucherOwner(ctx context.Context, voucherID uuid.UUID) (uuid.UUID, error)
	UsagesByVoucher(ctx context.Context, voucherID uuid.UUID) ([]*VoucherUsageView, error)
	Stats(ctx context.Context) (*VoucherStatsView, error)
	StatsByUser(ctx context.Context, userID uuid.UUID) (*UserVoucherStatsView, error)
}

type voucherQueriesImpl struct {
	readStore VoucherReadStore
}

func NewVoucherQueries(readStore VoucherReadStore) VoucherQueries {
	return &voucherQueriesImpl{readStore: readStore}
}

func (q *voucherQueriesImpl) ListTypes(ctx context.Context, includeInactive bool) ([]*VoucherTypeView, error) {
	return q.readStore.ListTypes(ctx, includeInactive)
}

func (q *voucherQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]*VoucherListItem, error) {
	return q.readStore.FindByUser(ctx, userID, status)
}

func (q *voucherQueriesImpl) GetByCode(ctx context.Context, actorID uuid.UUID, actorRole user.Role, code string) (*VoucherView, error) {
	normalized, err := voucher.NewCode(code)
	if err != nil {
		return nil, ErrVoucherViewNotFound
	}

	view, err := q.readStore.FindByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVoucherViewNotFound
		}
		return nil, err
	}

	if view.UserID != actorID && actorRole != user.RoleAdmin {
		return nil, ErrVoucherAccessDenied
	}
	return view, nil
}

func (q *voucherQueriesImpl) ListUsages(ctx context.Context, actorID uuid.UUID, actorRole user.Role, voucherID uuid.UUID) ([]*VoucherUsageView, error) {
	owner, err := q.readStore.VoucherOwner(ctx, voucherID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVoucherViewNotFound
		}
		return nil, err
	}
	if owner != actorID && actorRole != user.RoleAdmin {
		return nil, ErrVoucherAccessDenied
	}

	return q.readStore.UsagesByVoucher(ctx, voucherID)
}

func (q *voucherQueriesImpl) Stats(ctx context.Context) (*VoucherStatsView, error) {
	return q.readStore.Stats(ctx)
}

func (q *voucherQueriesImpl) StatsByUser(ctx context.Context, userID uuid.UUID) (*UserVoucherStatsView, error) {
	return q.readStore.StatsByUser(ctx, userID)
}
