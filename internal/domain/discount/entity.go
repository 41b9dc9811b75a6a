package discount

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotCurrentlyValid = errors.New("discount is not currently valid")
	ErrNotApplicable     = errors.New("discount does not apply to this voucher type")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// Discount is a promotional code with its own validity window and use cap.
// current_uses counts completed payments that used the code, not voucher units.
type Discount struct {
	id                uuid.UUID
	code              Code
	description       string
	value             Value
	applicableTypeIDs []uuid.UUID
	maxUses           *int32
	currentUses       int32
	maxUsesPerUser    int32
	validFrom         time.Time
	validUntil        time.Time
	isActive          bool
	createdAt         time.Time
}

func ReconstructDiscount(
	id uuid.UUID,
	code Code,
	description string,
	value Value,
	applicableTypeIDs []uuid.UUID,
	maxUses *int32,
	currentUses, maxUsesPerUser int32,
	validFrom, validUntil time.Time,
	isActive bool,
	createdAt time.Time,
) *Discount {
	return &Discount{
		id:                id,
		code:              code,
		description:       description,
		value:             value,
		applicableTypeIDs: applicableTypeIDs,
		maxUses:           maxUses,
		currentUses:       currentUses,
		maxUsesPerUser:    maxUsesPerUser,
		validFrom:         validFrom,
		validUntil:        validUntil,
		isActive:          isActive,
		createdAt:         createdAt,
	}
}

// IsValidAt checks active flag, validity window, and the global use cap.
func (d *Discount) IsValidAt(now time.Time) bool {
	if !d.isActive {
		return false
	}
	if now.Before(d.validFrom) || now.After(d.validUntil) {
		return false
	}
	if d.maxUses != nil && d.currentUses >= *d.maxUses {
		return false
	}
	return true
}

// AppliesTo reports whether the discount covers the given voucher type.
// An empty applicable set means the discount applies to all types.
func (d *Discount) AppliesTo(voucherTypeID uuid.UUID) bool {
	if len(d.applicableTypeIDs) == 0 {
		return true
	}
	for _, id := range d.applicableTypeIDs {
		if id == voucherTypeID {
			return true
		}
	}
	return false
}

// Quote prices quantity units of unitPriceCents under this discount.
// The discount applies to the whole base (unit price times quantity), clamped
// so the final amount is never negative.
func (d *Discount) Quote(now time.Time, voucherTypeID uuid.UUID, unitPriceCents int64, quantity int32) (finalCents, discountCents int64, err error) {
	if quantity < 1 {
		return 0, 0, ErrInvalidQuantity
	}
	if !d.IsValidAt(now) {
		return 0, 0, ErrNotCurrentlyValid
	}
	if !d.AppliesTo(voucherTypeID) {
		return 0, 0, ErrNotApplicable
	}

	base := unitPriceCents * int64(quantity)
	off := d.value.AmountOff(base)
	return base - off, off, nil
}

func (d *Discount) ID() uuid.UUID                  { return d.id }
func (d *Discount) Code() Code                     { return d.code }
func (d *Discount) Description() string            { return d.description }
func (d *Discount) Value() Value                   { return d.value }
func (d *Discount) ApplicableTypeIDs() []uuid.UUID { return d.applicableTypeIDs }
func (d *Discount) MaxUses() *int32                { return d.maxUses }
func (d *Discount) CurrentUses() int32             { return d.currentUses }
func (d *Discount) MaxUsesPerUser() int32          { return d.maxUsesPerUser }
func (d *Discount) ValidFrom() time.Time           { return d.validFrom }
func (d *Discount) ValidUntil() time.Time          { return d.validUntil }
func (d *Discount) IsActive() bool                 { return d.isActive }
func (d *Discount) CreatedAt() time.Time           { return d.createdAt }
