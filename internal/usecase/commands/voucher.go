package commands

import (
	"context"
	"time"

	"edu-vouchers/internal/domain/voucher"
	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/pkg/clock"
	"edu-vouchers/internal/pkg/errs"
	"edu-vouchers/internal/pkg/vouchercode"
	"edu-vouchers/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVoucherNotFound         = errs.New("voucher not found")
	ErrVoucherInvalid          = errs.New("voucher is not valid for redemption")
	ErrVoucherAlreadyCancelled = errs.New("voucher already cancelled")
	ErrDuplicateCode           = errs.New("voucher code already exists")
	ErrInvalidVoucherType      = errs.New("voucher type not found or inactive")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Attempts at a fresh code before giving up on a duplicate-key collision.
// With a 36^12 code space a single retry is already overkill.
const maxCodeAttempts = 3

type RedeemParams struct {
	Code        string
	UserID      uuid.UUID
	ServiceType string
	ServiceData map[string]any
	ClientIP    *string
	UserAgent   *string
}

type RedeemResult struct {
	Voucher *voucher.Voucher
	Usage   *voucher.Usage
}

type VoucherCommands interface {
	// Issue mints a single voucher of the given type outside a payment flow
	// (administrative grants, comped vouchers).
	Issue(ctx context.Context, voucherTypeID, userID uuid.UUID, transactionRef *string) (*voucher.Voucher, error)
	// Redeem consumes one use of a voucher: validity check, usage increment,
	// status flip and the usage record all commit or roll back together.
	Redeem(ctx context.Context, params RedeemParams) (*RedeemResult, error)
	// Cancel administratively closes a voucher's remaining uses.
	Cancel(ctx context.Context, voucherID uuid.UUID) (*voucher.Voucher, error)
	// ExpireOverdue realigns stored status with expiry for reporting.
	// Validity checks never depend on it; IsValidAt already excludes
	// past-expiry vouchers.
	ExpireOverdue(ctx context.Context) (int64, error)
}

type voucherCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewVoucherCommands(uow shared.UnitOfWork, clock clock.Clock) VoucherCommands {
	return &voucherCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

func (v *voucherCommandsImpl) Issue(ctx context.Context, voucherTypeID, userID uuid.UUID, transactionRef *string) (*voucher.Voucher, error) {
	typeSnap, err := v.uow.CommandReads().VoucherTypeByID(ctx, voucherTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidVoucherType
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !typeSnap.IsActive {
		return nil, ErrInvalidVoucherType
	}

	var issued *voucher.Voucher
	err = v.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		issued, err = mintVoucher(ctx, tx, typeSnap.Spec(), userID, transactionRef, v.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

func (v *voucherCommandsImpl) Redeem(ctx context.Context, params RedeemParams) (*RedeemResult, error) {
	code, err := voucher.NewCode(params.Code)
	if err != nil {
		return nil, errs.Mark(err, ErrVoucherNotFound)
	}

	var result *RedeemResult
	err = v.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Vouchers().FindByCodeForUpdate(ctx, code)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVoucherNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := v.clock.Now()
		notes := voucher.Metadata{"last_service_type": params.ServiceType}
		redeemed, err := current.Redeemed(now, notes)
		if err != nil {
			return ErrVoucherInvalid
		}

		usage, err := voucher.NewUsage(
			redeemed.ID(),
			params.UserID,
			params.ServiceType,
			voucher.Metadata(params.ServiceData),
			now,
			voucher.ClientInfo{IPAddress: params.ClientIP, UserAgent: params.UserAgent},
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Vouchers().Update(ctx, redeemed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Vouchers().AppendUsage(ctx, usage); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &RedeemResult{Voucher: redeemed, Usage: usage}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (v *voucherCommandsImpl) Cancel(ctx context.Context, voucherID uuid.UUID) (*voucher.Voucher, error) {
	var cancelled *voucher.Voucher
	err := v.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Vouchers().FindByIDForUpdate(ctx, voucherID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVoucherNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		cancelled, err = current.Cancelled()
		if err != nil {
			return ErrVoucherAlreadyCancelled
		}
		if err := tx.Vouchers().Update(ctx, cancelled); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (v *voucherCommandsImpl) ExpireOverdue(ctx context.Context) (int64, error) {
	var expired int64
	err := v.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Vouchers().ExpireOverdue(ctx, v.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		expired = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

// mintVoucher issues one voucher with a fresh code, retrying generation when
// the store rejects a collision on the code uniqueness constraint.
func mintVoucher(ctx context.Context, tx shared.Tx, spec voucher.TypeSpec, userID uuid.UUID, transactionRef *string, now time.Time) (*voucher.Voucher, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		raw, err := vouchercode.Generate()
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
		code, err := voucher.NewCode(raw)
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}

		minted, err := voucher.NewVoucher(spec, userID, code, now, transactionRef)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidVoucherType)
		}

		err = tx.Vouchers().Create(ctx, minted)
		if err == nil {
			return minted, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}
	return nil, ErrDuplicateCode
}
