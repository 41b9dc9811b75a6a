package voucher

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInactiveVoucherType = errors.New("voucher type is inactive")
	ErrNotRedeemable       = errors.New("voucher is not valid for redemption")
	ErrAlreadyCancelled    = errors.New("voucher is already cancelled")
)

// TypeSpec is the slice of a voucher type that issuance and validity need.
type TypeSpec struct {
	ID           uuid.UUID
	TypeCode     TypeCode
	ValidityDays int32
	UsageLimit   int32
	IsActive     bool
}

// Voucher is a single issued credit. expires_at is fixed at creation and never
// recomputed; usage_count only moves up and never past the type's usage limit.
// Vouchers are never physically deleted.
type Voucher struct {
	id            uuid.UUID
	typeID        uuid.UUID
	userID        uuid.UUID
	code          Code
	status        Status
	usageCount    int32
	usageLimit    int32 // denormalized from the owning type at load time
	lastUsedAt    *time.Time
	issuedAt      time.Time
	expiresAt     time.Time
	transactionID *string
	metadata      Metadata
}

// NewVoucher issues a voucher against spec at now. The inactive-type check is
// the safety net behind purchase-time validation.
func NewVoucher(spec TypeSpec, userID uuid.UUID, code Code, now time.Time, transactionID *string) (*Voucher, error) {
	if !spec.IsActive {
		return nil, ErrInactiveVoucherType
	}
	if spec.UsageLimit < 1 {
		return nil, ErrInvalidUsageLimit
	}
	if spec.ValidityDays < 1 {
		return nil, ErrInvalidValidity
	}

	return &Voucher{
		id:            uuid.New(),
		typeID:        spec.ID,
		userID:        userID,
		code:          code,
		status:        StatusActive,
		usageCount:    0,
		usageLimit:    spec.UsageLimit,
		issuedAt:      now,
		expiresAt:     now.AddDate(0, 0, int(spec.ValidityDays)),
		transactionID: transactionID,
		metadata:      Metadata{},
	}, nil
}

func ReconstructVoucher(
	id, typeID, userID uuid.UUID,
	code Code,
	status Status,
	usageCount, usageLimit int32,
	lastUsedAt *time.Time,
	issuedAt, expiresAt time.Time,
	transactionID *string,
	metadata Metadata,
) *Voucher {
	if metadata == nil {
		metadata = Metadata{}
	}
	return &Voucher{
		id:            id,
		typeID:        typeID,
		userID:        userID,
		code:          code,
		status:        status,
		usageCount:    usageCount,
		usageLimit:    usageLimit,
		lastUsedAt:    lastUsedAt,
		issuedAt:      issuedAt,
		expiresAt:     expiresAt,
		transactionID: transactionID,
		metadata:      metadata,
	}
}

// IsValidAt is the single validity rule used everywhere a voucher is checked:
// active status, not past expiry, usage below the limit.
func (v *Voucher) IsValidAt(now time.Time) bool {
	return v.status == StatusActive &&
		!now.After(v.expiresAt) &&
		v.usageCount < v.usageLimit
}

// Redeemed returns the post-redemption state without mutating the receiver.
// When the increment saturates the usage limit the status flips to used in the
// same step; there is no intermediate saturated-but-active state.
func (v *Voucher) Redeemed(now time.Time, notes Metadata) (*Voucher, error) {
	if !v.IsValidAt(now) {
		return nil, ErrNotRedeemable
	}

	next := *v
	next.usageCount++
	usedAt := now
	next.lastUsedAt = &usedAt
	next.metadata = v.metadata.Merge(notes)
	if next.usageCount >= next.usageLimit {
		next.status = StatusUsed
	}
	return &next, nil
}

// Cancelled returns the administratively cancelled state. Cancelling an
// already-used or expired voucher is allowed; it only closes the remaining uses.
func (v *Voucher) Cancelled() (*Voucher, error) {
	if v.status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	next := *v
	next.status = StatusCancelled
	return &next, nil
}

func (v *Voucher) ID() uuid.UUID          { return v.id }
func (v *Voucher) TypeID() uuid.UUID      { return v.typeID }
func (v *Voucher) UserID() uuid.UUID      { return v.userID }
func (v *Voucher) Code() Code             { return v.code }
func (v *Voucher) Status() Status         { return v.status }
func (v *Voucher) UsageCount() int32      { return v.usageCount }
func (v *Voucher) UsageLimit() int32      { return v.usageLimit }
func (v *Voucher) LastUsedAt() *time.Time { return v.lastUsedAt }
func (v *Voucher) IssuedAt() time.Time    { return v.issuedAt }
func (v *Voucher) ExpiresAt() time.Time   { return v.expiresAt }
func (v *Voucher) TransactionID() *string { return v.transactionID }
func (v *Voucher) Metadata() Metadata     { return v.metadata.Copy() }
