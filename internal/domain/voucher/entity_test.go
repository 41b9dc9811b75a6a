//go:build unit

package voucher_test

import (
	"testing"
	"time"

	"edu-vouchers/internal/domain/voucher"
	"edu-vouchers/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.VoucherBuilder)
	errIs  error
}

func TestNewVoucher(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewVoucherBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, voucher.StatusActive, actual.Status())
		assert.Equal(t, int32(0), actual.UsageCount())
		assert.Equal(t, b.IssuedAt, actual.IssuedAt())
		assert.Equal(t, b.IssuedAt.AddDate(0, 0, int(b.ValidityDays)), actual.ExpiresAt())
		assert.Nil(t, actual.LastUsedAt())
	})

	t.Run("issuance validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "inactive type",
				mutate: func(b *builder.VoucherBuilder) { b.AsInactiveType() },
				errIs:  voucher.ErrInactiveVoucherType,
			},
			{
				name:   "zero usage limit",
				mutate: func(b *builder.VoucherBuilder) { b.UsageLimit = 0 },
				errIs:  voucher.ErrInvalidUsageLimit,
			},
			{
				name:   "zero validity days",
				mutate: func(b *builder.VoucherBuilder) { b.ValidityDays = 0 },
				errIs:  voucher.ErrInvalidValidity,
			},
			{
				name:   "minimum valid configuration",
				mutate: func(b *builder.VoucherBuilder) { b.UsageLimit = 1; b.ValidityDays = 1 },
			},
			{
				name:   "invalid code format",
				mutate: func(b *builder.VoucherBuilder) { b.WithCode("short") },
				errIs:  voucher.ErrInvalidCode,
			},
		})
	})

	t.Run("code normalization", func(t *testing.T) {
		code, err := voucher.NewCode("  abcd1234efgh ")
		require.NoError(t, err)
		assert.Equal(t, "ABCD1234EFGH", code.String())
	})

	t.Run("UUID uniqueness", func(t *testing.T) {
		v1, err1 := builder.NewVoucherBuilder().BuildDomain()
		v2, err2 := builder.NewVoucherBuilder().BuildDomain()
		require.NoError(t, err1)
		require.NoError(t, err2)

		assert.NotEqual(t, v1.ID(), v2.ID())
	})
}

func TestVoucher_IsValidAt(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name    string
		voucher *voucher.Voucher
		want    bool
	}{
		{
			name:    "active with uses remaining",
			voucher: builder.NewVoucherBuilder().WithUsage(0, 3).BuildReconstructed(),
			want:    true,
		},
		{
			name:    "valid exactly at expiry instant",
			voucher: builder.NewVoucherBuilder().WithExpiresAt(now).BuildReconstructed(),
			want:    true,
		},
		{
			name:    "past expiry",
			voucher: builder.NewVoucherBuilder().AsExpired().BuildReconstructed(),
			want:    false,
		},
		{
			name:    "usage limit reached",
			voucher: builder.NewVoucherBuilder().WithUsage(3, 3).BuildReconstructed(),
			want:    false,
		},
		{
			name:    "cancelled",
			voucher: builder.NewVoucherBuilder().WithStatus(voucher.StatusCancelled).BuildReconstructed(),
			want:    false,
		},
		{
			name:    "marked used",
			voucher: builder.NewVoucherBuilder().WithStatus(voucher.StatusUsed).BuildReconstructed(),
			want:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.voucher.IsValidAt(now))
		})
	}
}

func TestVoucher_Redeemed(t *testing.T) {
	now := time.Now()

	t.Run("increments usage and records timestamp", func(t *testing.T) {
		v := builder.NewVoucherBuilder().WithUsage(0, 3).BuildReconstructed()

		redeemed, err := v.Redeemed(now, voucher.Metadata{"last_service_type": "result_check"})
		require.NoError(t, err)

		assert.Equal(t, int32(1), redeemed.UsageCount())
		assert.Equal(t, voucher.StatusActive, redeemed.Status())
		require.NotNil(t, redeemed.LastUsedAt())
		assert.Equal(t, now, *redeemed.LastUsedAt())
		assert.Equal(t, "result_check", redeemed.Metadata()["last_service_type"])

		// the receiver is untouched
		assert.Equal(t, int32(0), v.UsageCount())
		assert.Nil(t, v.LastUsedAt())
	})

	t.Run("final use flips status to used in the same step", func(t *testing.T) {
		v := builder.NewVoucherBuilder().WithUsage(2, 3).BuildReconstructed()

		redeemed, err := v.Redeemed(now, nil)
		require.NoError(t, err)

		assert.Equal(t, int32(3), redeemed.UsageCount())
		assert.Equal(t, voucher.StatusUsed, redeemed.Status())
	})

	t.Run("full redemption sequence on a multi-use voucher", func(t *testing.T) {
		v := builder.NewVoucherBuilder().WithUsage(0, 2).BuildReconstructed()

		first, err := v.Redeemed(now, nil)
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusActive, first.Status())

		second, err := first.Redeemed(now, nil)
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusUsed, second.Status())

		_, err = second.Redeemed(now, nil)
		assert.ErrorIs(t, err, voucher.ErrNotRedeemable)
	})

	t.Run("rejects expired voucher", func(t *testing.T) {
		v := builder.NewVoucherBuilder().AsExpired().BuildReconstructed()

		_, err := v.Redeemed(now, nil)
		assert.ErrorIs(t, err, voucher.ErrNotRedeemable)
	})
}

func TestVoucher_Cancelled(t *testing.T) {
	t.Run("closes an active voucher", func(t *testing.T) {
		v := builder.NewVoucherBuilder().BuildReconstructed()

		cancelled, err := v.Cancelled()
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusCancelled, cancelled.Status())
		assert.Equal(t, voucher.StatusActive, v.Status())
	})

	t.Run("cancelling a used voucher is allowed", func(t *testing.T) {
		v := builder.NewVoucherBuilder().WithStatus(voucher.StatusUsed).BuildReconstructed()

		cancelled, err := v.Cancelled()
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusCancelled, cancelled.Status())
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		v := builder.NewVoucherBuilder().WithStatus(voucher.StatusCancelled).BuildReconstructed()

		_, err := v.Cancelled()
		assert.ErrorIs(t, err, voucher.ErrAlreadyCancelled)
	})
}

func TestNewUsage(t *testing.T) {
	now := time.Now()

	t.Run("records service context", func(t *testing.T) {
		ip := "203.0.113.7"
		usage, err := voucher.NewUsage(uuid.New(), uuid.New(), " result_check ", voucher.Metadata{"exam_year": "2026"}, now, voucher.ClientInfo{IPAddress: &ip})
		require.NoError(t, err)

		assert.Equal(t, "result_check", usage.ServiceType())
		assert.Equal(t, "2026", usage.ServiceData()["exam_year"])
		assert.Equal(t, now, usage.UsedAt())
		assert.Equal(t, &ip, usage.Client().IPAddress)
	})

	t.Run("empty service type rejected", func(t *testing.T) {
		_, err := voucher.NewUsage(uuid.New(), uuid.New(), "   ", nil, now, voucher.ClientInfo{})
		assert.ErrorIs(t, err, voucher.ErrEmptyServiceType)
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewVoucherBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
