//go:build unit

package pgconv_test

import (
	"database/sql"
	"testing"
	"time"

	"edu-vouchers/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableRoundTrips(t *testing.T) {
	t.Run("string pointers survive the round trip", func(t *testing.T) {
		ref := "pi_test_123"
		assert.Equal(t, &ref, pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(&ref)))
		assert.Nil(t, pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(nil)))
		assert.False(t, pgconv.StringPtrToPgtype(nil).Valid)
	})

	t.Run("time pointers survive the round trip", func(t *testing.T) {
		completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		got := pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&completed))
		require.NotNil(t, got)
		assert.True(t, completed.Equal(*got))
		assert.Nil(t, pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(nil)))
	})

	t.Run("null int4 maps to a nil pointer", func(t *testing.T) {
		assert.Nil(t, pgconv.Int32PtrFromPgtype(pgtype.Int4{Valid: false}))
		got := pgconv.Int32PtrFromPgtype(pgtype.Int4{Int32: 100, Valid: true})
		require.NotNil(t, got)
		assert.Equal(t, int32(100), *got)
	})
}

func TestMapToJSONB(t *testing.T) {
	t.Run("nil map encodes as the empty object", func(t *testing.T) {
		raw, err := pgconv.MapToJSONB(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("round trip preserves keys", func(t *testing.T) {
		raw, err := pgconv.MapToJSONB(map[string]any{"exam_year": "2026"})
		require.NoError(t, err)

		m, err := pgconv.MapFromJSONB(raw)
		require.NoError(t, err)
		assert.Equal(t, "2026", m["exam_year"])
	})

	t.Run("empty column reads as the empty map", func(t *testing.T) {
		m, err := pgconv.MapFromJSONB(nil)
		require.NoError(t, err)
		assert.Empty(t, m)
	})
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(sql.ErrNoRows))
	assert.False(t, pgconv.IsNoRows(assert.AnError))
}
