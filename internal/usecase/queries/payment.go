package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"edu-vouchers/internal/domain/user"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/pkg/errs"
)

var (
	ErrPaymentViewNotFound = errs.New("payment not found")
	ErrPaymentAccessDenied = errs.New("payment access denied")
)

type PaymentView struct {
	ID                  uuid.UUID   `json:"id"`
	UserID              uuid.UUID   `json:"user_id"`
	VoucherTypeID       uuid.UUID   `json:"voucher_type_id"`
	TypeName            string      `json:"type_name"`
	AmountCents         int64       `json:"amount_cents"`
	Quantity            int32       `json:"quantity"`
	DiscountAmountCents int64       `json:"discount_amount_cents"`
	TotalAmountCents    int64       `json:"total_amount_cents"`
	Currency            string      `json:"currency"`
	Status              string      `json:"status"`
	Method              string      `json:"payment_method"`
	IntentID            *string     `json:"intent_id,omitempty"`
	DiscountCode        *string     `json:"discount_code,omitempty"`
	VoucherIDs          []uuid.UUID `json:"voucher_ids,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	CompletedAt         *time.Time  `json:"completed_at,omitempty"`
}

type PaymentListItem struct {
	ID               uuid.UUID  `json:"id"`
	TypeName         string     `json:"type_name"`
	Quantity         int32      `json:"quantity"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	Method           string     `json:"payment_method"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type RefundView struct {
	ID          uuid.UUID  `json:"id"`
	PaymentID   uuid.UUID  `json:"payment_id"`
	AmountCents int64      `json:"amount_cents"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	AdminNotes  *string    `json:"admin_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type PaymentQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*PaymentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentListItem, error)
	ListRefunds(ctx context.Context, actorID uuid.UUID, actorRole user.Role, paymentID uuid.UUID) ([]*RefundView, error)
}

type PaymentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentListItem, error)
	RefundsByPayment(ctx context.Context, paymentID uuid.UUID) ([]*RefundView, error)
}

type paymentQueriesImpl struct {
	readStore PaymentReadStore
}

func NewPaymentQueries(readStore PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{readStore: readStore}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*PaymentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentViewNotFound
		}
		return nil, err
	}

	if view.UserID != actorID && actorRole != user.RoleAdmin {
		return nil, ErrPaymentAccessDenied
	}
	return view, nil
}

func (q *paymentQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentListItem, error) {
	return q.readStore.FindByUser(ctx, userID)
}

func (q *paymentQueriesImpl) ListRefunds(ctx context.Context, actorID uuid.UUID, actorRole user.Role, paymentID uuid.UUID) ([]*RefundView, error) {
	view, err := q.readStore.FindByID(ctx, paymentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentViewNotFound
		}
		return nil, err
	}
	if view.UserID != actorID && actorRole != user.RoleAdmin {
		return nil, ErrPaymentAccessDenied
	}

	return q.readStore.RefundsByPayment(ctx, paymentID)
}
