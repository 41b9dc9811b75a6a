//go:build unit

package discount_test

import (
	"testing"
	"time"

	"edu-vouchers/internal/domain/discount"
	"edu-vouchers/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		code, err := discount.NewCode("  welcome20 ")
		require.NoError(t, err)
		assert.Equal(t, "WELCOME20", code.String())
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, raw := range []string{"", "ab", "has space", "bad!chars"} {
			_, err := discount.NewCode(raw)
			assert.ErrorIs(t, err, discount.ErrInvalidDiscountCode, "code %q", raw)
		}
	})
}

func TestNewValue(t *testing.T) {
	testCases := []struct {
		name  string
		kind  discount.Kind
		raw   float64
		errIs error
	}{
		{name: "valid percentage", kind: discount.KindPercentage, raw: 20},
		{name: "full percentage", kind: discount.KindPercentage, raw: 100},
		{name: "percentage above 100", kind: discount.KindPercentage, raw: 101, errIs: discount.ErrInvalidDiscountPercent},
		{name: "negative percentage", kind: discount.KindPercentage, raw: -5, errIs: discount.ErrInvalidDiscountPercent},
		{name: "valid fixed amount", kind: discount.KindFixed, raw: 500},
		{name: "negative fixed amount", kind: discount.KindFixed, raw: -1, errIs: discount.ErrInvalidDiscountAmount},
		{name: "unknown kind", kind: discount.Kind("bogus"), raw: 10, errIs: discount.ErrUnknownDiscountKind},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := discount.NewValue(tc.kind, tc.raw)
			if tc.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.errIs)
			}
		})
	}
}

func TestDiscount_Quote(t *testing.T) {
	now := time.Now()
	typeID := uuid.New()

	t.Run("percentage applies to the whole base", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithPercentage(20).BuildDomain()
		require.NoError(t, err)

		// 2 units at 1500 cents, 20% off
		final, off, err := d.Quote(now, typeID, 1500, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2400), final)
		assert.Equal(t, int64(600), off)
	})

	t.Run("fixed amount off the total", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithFixed(500).BuildDomain()
		require.NoError(t, err)

		final, off, err := d.Quote(now, typeID, 1500, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2500), final)
		assert.Equal(t, int64(500), off)
	})

	t.Run("fixed amount larger than the base clamps to zero", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithFixed(99999).BuildDomain()
		require.NoError(t, err)

		final, off, err := d.Quote(now, typeID, 1500, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), final)
		assert.Equal(t, int64(1500), off)
	})

	t.Run("percentage truncates fractional cents", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithPercentage(33).BuildDomain()
		require.NoError(t, err)

		final, off, err := d.Quote(now, typeID, 101, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(33), off)
		assert.Equal(t, int64(68), final)
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().BuildDomain()
		require.NoError(t, err)

		_, _, err = d.Quote(now, typeID, 1500, 0)
		assert.ErrorIs(t, err, discount.ErrInvalidQuantity)
	})

	t.Run("rejected outside the validity window", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().
			WithWindow(now.AddDate(0, 0, 1), now.AddDate(0, 1, 0)).
			BuildDomain()
		require.NoError(t, err)

		_, _, err = d.Quote(now, typeID, 1500, 1)
		assert.ErrorIs(t, err, discount.ErrNotCurrentlyValid)
	})

	t.Run("rejected when deactivated", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().AsInactive().BuildDomain()
		require.NoError(t, err)

		_, _, err = d.Quote(now, typeID, 1500, 1)
		assert.ErrorIs(t, err, discount.ErrNotCurrentlyValid)
	})

	t.Run("rejected when the use cap is reached", func(t *testing.T) {
		max := int32(10)
		d, err := builder.NewDiscountBuilder().WithUses(10, &max).BuildDomain()
		require.NoError(t, err)

		_, _, err = d.Quote(now, typeID, 1500, 1)
		assert.ErrorIs(t, err, discount.ErrNotCurrentlyValid)
	})

	t.Run("rejected for a non-covered voucher type", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithApplicableTypes(uuid.New()).BuildDomain()
		require.NoError(t, err)

		_, _, err = d.Quote(now, typeID, 1500, 1)
		assert.ErrorIs(t, err, discount.ErrNotApplicable)
	})
}

func TestDiscount_AppliesTo(t *testing.T) {
	typeID := uuid.New()

	t.Run("empty applicable set covers all types", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().BuildDomain()
		require.NoError(t, err)
		assert.True(t, d.AppliesTo(typeID))
	})

	t.Run("listed type is covered", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithApplicableTypes(uuid.New(), typeID).BuildDomain()
		require.NoError(t, err)
		assert.True(t, d.AppliesTo(typeID))
	})

	t.Run("unlisted type is not covered", func(t *testing.T) {
		d, err := builder.NewDiscountBuilder().WithApplicableTypes(uuid.New()).BuildDomain()
		require.NoError(t, err)
		assert.False(t, d.AppliesTo(typeID))
	})
}
