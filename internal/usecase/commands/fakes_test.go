//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"edu-vouchers/internal/domain/discount"
	"edu-vouchers/internal/domain/payment"
	"edu-vouchers/internal/domain/voucher"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/usecase/commands"
	"edu-vouchers/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory unit of work. Entities are immutable snapshots, so restoring the
// map headers on error is enough to emulate a rollback. Transactions serialize
// on mu the way concurrent redeems serialize on the row lock.
type fakeUoW struct {
	mu sync.Mutex
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		tx: &fakeTx{
			vouchers: &fakeVoucherRepo{
				byID: map[uuid.UUID]*voucher.Voucher{},
			},
			payments: &fakePaymentRepo{
				byID:    map[uuid.UUID]*payment.Payment{},
				refunds: map[uuid.UUID]*payment.Refund{},
			},
			discounts: &fakeDiscountRepo{
				byCode:   map[string]*discount.Discount{},
				consumed: map[uuid.UUID]int{},
			},
			reads: &fakeReads{
				types: map[uuid.UUID]*shared.VoucherTypeSnapshot{},
			},
		},
	}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	savedVouchers := copyMap(u.tx.vouchers.byID)
	savedUsages := append([]*voucher.Usage(nil), u.tx.vouchers.usages...)
	savedPayments := copyMap(u.tx.payments.byID)
	savedLinks := append([][2]uuid.UUID(nil), u.tx.payments.links...)
	savedRefunds := copyMap(u.tx.payments.refunds)
	savedConsumed := copyMap(u.tx.discounts.consumed)

	if err := fn(ctx, u.tx); err != nil {
		u.tx.vouchers.byID = savedVouchers
		u.tx.vouchers.usages = savedUsages
		u.tx.payments.byID = savedPayments
		u.tx.payments.links = savedLinks
		u.tx.payments.refunds = savedRefunds
		u.tx.discounts.consumed = savedConsumed
		return err
	}
	return nil
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return u.tx.reads
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	copied := make(map[K]V, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}

type fakeTx struct {
	vouchers  *fakeVoucherRepo
	payments  *fakePaymentRepo
	discounts *fakeDiscountRepo
	reads     *fakeReads
}

func (t *fakeTx) Vouchers() shared.VoucherRepository   { return t.vouchers }
func (t *fakeTx) Payments() shared.PaymentRepository   { return t.payments }
func (t *fakeTx) Discounts() shared.DiscountRepository { return t.discounts }
func (t *fakeTx) Reads() shared.CommandReads           { return t.reads }

type fakeVoucherRepo struct {
	byID       map[uuid.UUID]*voucher.Voucher
	usages     []*voucher.Usage
	expired    int64
	createErrs []error // popped per Create call
}

func (r *fakeVoucherRepo) Create(_ context.Context, v *voucher.Voucher) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	r.byID[v.ID()] = v
	return nil
}

func (r *fakeVoucherRepo) FindByCodeForUpdate(_ context.Context, code voucher.Code) (*voucher.Voucher, error) {
	for _, v := range r.byID {
		if v.Code() == code {
			return v, nil
		}
	}
	return nil, infra.NewRepoErr("voucher not found", infra.KindNotFound)
}

func (r *fakeVoucherRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, infra.NewRepoErr("voucher not found", infra.KindNotFound)
	}
	return v, nil
}

func (r *fakeVoucherRepo) Update(_ context.Context, v *voucher.Voucher) error {
	if _, ok := r.byID[v.ID()]; !ok {
		return infra.NewRepoErr("voucher not found", infra.KindNotFound)
	}
	r.byID[v.ID()] = v
	return nil
}

func (r *fakeVoucherRepo) AppendUsage(_ context.Context, u *voucher.Usage) error {
	r.usages = append(r.usages, u)
	return nil
}

func (r *fakeVoucherRepo) ExpireOverdue(_ context.Context, _ time.Time) (int64, error) {
	return r.expired, nil
}

type fakePaymentRepo struct {
	byID    map[uuid.UUID]*payment.Payment
	links   [][2]uuid.UUID
	refunds map[uuid.UUID]*payment.Refund
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	r.byID[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *payment.Payment) error {
	if _, ok := r.byID[p.ID()]; !ok {
		return infra.NewRepoErr("payment not found", infra.KindNotFound)
	}
	r.byID[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) FindByIntentForUpdate(_ context.Context, intentID string, userID uuid.UUID) (*payment.Payment, error) {
	for _, p := range r.byID {
		if p.IntentID() != nil && *p.IntentID() == intentID && p.UserID() == userID {
			return p, nil
		}
	}
	return nil, infra.NewRepoErr("payment not found", infra.KindNotFound)
}

func (r *fakePaymentRepo) FindByIDForUpdate(_ context.Context, id, userID uuid.UUID) (*payment.Payment, error) {
	p, ok := r.byID[id]
	if !ok || p.UserID() != userID {
		return nil, infra.NewRepoErr("payment not found", infra.KindNotFound)
	}
	return p, nil
}

func (r *fakePaymentRepo) LinkVoucher(_ context.Context, paymentID, voucherID uuid.UUID) error {
	r.links = append(r.links, [2]uuid.UUID{paymentID, voucherID})
	return nil
}

func (r *fakePaymentRepo) HasRefund(_ context.Context, paymentID uuid.UUID) (bool, error) {
	_, ok := r.refunds[paymentID]
	return ok, nil
}

func (r *fakePaymentRepo) CreateRefund(_ context.Context, ref *payment.Refund) error {
	if _, ok := r.refunds[ref.PaymentID()]; ok {
		return infra.NewRepoErr("refund exists", infra.KindDuplicateKey)
	}
	r.refunds[ref.PaymentID()] = ref
	return nil
}

type fakeDiscountRepo struct {
	byCode     map[string]*discount.Discount
	consumed   map[uuid.UUID]int
	consumeErr error
}

func (r *fakeDiscountRepo) FindByCode(_ context.Context, code string) (*discount.Discount, error) {
	d, ok := r.byCode[code]
	if !ok {
		return nil, infra.NewRepoErr("discount not found", infra.KindNotFound)
	}
	return d, nil
}

func (r *fakeDiscountRepo) Consume(_ context.Context, id uuid.UUID) error {
	if r.consumeErr != nil {
		return r.consumeErr
	}
	r.consumed[id]++
	return nil
}

type fakeReads struct {
	types    map[uuid.UUID]*shared.VoucherTypeSnapshot
	discount *discount.Discount
}

func (r *fakeReads) VoucherTypeByID(_ context.Context, id uuid.UUID) (*shared.VoucherTypeSnapshot, error) {
	s, ok := r.types[id]
	if !ok {
		return nil, infra.NewRepoErr("voucher type not found", infra.KindNotFound)
	}
	return s, nil
}

func (r *fakeReads) DiscountByCode(_ context.Context, code string) (*discount.Discount, error) {
	if r.discount == nil || r.discount.Code().String() != code {
		return nil, infra.NewRepoErr("discount not found", infra.KindNotFound)
	}
	return r.discount, nil
}

type fakeGateway struct {
	createErr     error
	retrieveState commands.IntentState
	retrieveErr   error
	chargeRef     *string
	createCalls   int
	lastAmount    int64
	lastCurrency  string
	lastMetadata  map[string]string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountCents int64, currency string, metadata map[string]string) (*commands.IntentRef, error) {
	g.createCalls++
	g.lastAmount = amountCents
	g.lastCurrency = currency
	g.lastMetadata = metadata
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &commands.IntentRef{ID: "pi_test_123", ClientSecret: "pi_test_123_secret"}, nil
}

func (g *fakeGateway) RetrieveIntent(_ context.Context, intentID string) (*commands.IntentStatus, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	state := g.retrieveState
	if state == "" {
		state = commands.IntentSucceeded
	}
	return &commands.IntentStatus{ID: intentID, State: state, ChargeRef: g.chargeRef}, nil
}
