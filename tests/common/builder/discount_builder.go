//go:build unit

package builder

import (
	"time"

	domdiscount "edu-vouchers/internal/domain/discount"

	"github.com/google/uuid"
)

type DiscountBuilder struct {
	ID                uuid.UUID
	Code              string
	Description       string
	Kind              domdiscount.Kind
	RawValue          float64
	ApplicableTypeIDs []uuid.UUID
	MaxUses           *int32
	CurrentUses       int32
	MaxUsesPerUser    int32
	ValidFrom         time.Time
	ValidUntil        time.Time
	IsActive          bool
}

func NewDiscountBuilder() *DiscountBuilder {
	now := time.Now()
	return &DiscountBuilder{
		ID:             uuid.New(),
		Code:           "WELCOME20",
		Description:    "20 percent off",
		Kind:           domdiscount.KindPercentage,
		RawValue:       20,
		MaxUsesPerUser: 1,
		ValidFrom:      now.AddDate(0, 0, -1),
		ValidUntil:     now.AddDate(0, 1, 0),
		IsActive:       true,
	}
}

func (b *DiscountBuilder) With(mutate func(*DiscountBuilder)) *DiscountBuilder {
	mutate(b)
	return b
}

func (b *DiscountBuilder) BuildDomain() (*domdiscount.Discount, error) {
	code, err := domdiscount.NewCode(b.Code)
	if err != nil {
		return nil, err
	}
	value, err := domdiscount.NewValue(b.Kind, b.RawValue)
	if err != nil {
		return nil, err
	}
	return domdiscount.ReconstructDiscount(
		b.ID, code, b.Description, value,
		b.ApplicableTypeIDs,
		b.MaxUses, b.CurrentUses, b.MaxUsesPerUser,
		b.ValidFrom, b.ValidUntil,
		b.IsActive, b.ValidFrom,
	), nil
}

// Fluent builder methods
func (b *DiscountBuilder) WithFixed(amountCents int64) *DiscountBuilder {
	b.Kind = domdiscount.KindFixed
	b.RawValue = float64(amountCents)
	return b
}

func (b *DiscountBuilder) WithPercentage(percent float64) *DiscountBuilder {
	b.Kind = domdiscount.KindPercentage
	b.RawValue = percent
	return b
}

func (b *DiscountBuilder) WithApplicableTypes(ids ...uuid.UUID) *DiscountBuilder {
	b.ApplicableTypeIDs = ids
	return b
}

func (b *DiscountBuilder) WithUses(current int32, max *int32) *DiscountBuilder {
	b.CurrentUses = current
	b.MaxUses = max
	return b
}

func (b *DiscountBuilder) WithWindow(from, until time.Time) *DiscountBuilder {
	b.ValidFrom = from
	b.ValidUntil = until
	return b
}

func (b *DiscountBuilder) AsInactive() *DiscountBuilder {
	b.IsActive = false
	return b
}
