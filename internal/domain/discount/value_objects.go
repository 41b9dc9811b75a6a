package discount

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidDiscountCode    = errors.New("invalid discount code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrUnknownDiscountKind    = errors.New("unknown discount kind")
)

var discountCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,50}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !discountCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidDiscountCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

// Value is the reduction a discount applies to a priced quantity.
type Value struct {
	kind        Kind
	percentOff  float64
	amountCents int64
}

func NewPercentageValue(percentOff float64) (Value, error) {
	if percentOff < 0 || percentOff > 100 {
		return Value{}, ErrInvalidDiscountPercent
	}
	return Value{kind: KindPercentage, percentOff: percentOff}, nil
}

func NewFixedValue(amountCents int64) (Value, error) {
	if amountCents < 0 {
		return Value{}, ErrInvalidDiscountAmount
	}
	return Value{kind: KindFixed, amountCents: amountCents}, nil
}

func NewValue(kind Kind, raw float64) (Value, error) {
	switch kind {
	case KindPercentage:
		return NewPercentageValue(raw)
	case KindFixed:
		// raw carries cents when the kind is fixed
		return NewFixedValue(int64(raw))
	default:
		return Value{}, ErrUnknownDiscountKind
	}
}

func (v Value) Kind() Kind          { return v.kind }
func (v Value) PercentOff() float64 { return v.percentOff }
func (v Value) AmountCents() int64  { return v.amountCents }

// AmountOff computes the discount on baseCents, clamped so it never exceeds
// the base (the final amount never goes negative).
func (v Value) AmountOff(baseCents int64) int64 {
	var off int64
	switch v.kind {
	case KindPercentage:
		off = int64(float64(baseCents) * v.percentOff / 100.0)
	case KindFixed:
		off = v.amountCents
	}
	if off > baseCents {
		return baseCents
	}
	if off < 0 {
		return 0
	}
	return off
}
