//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/pkg/jwt"
	"edu-vouchers/internal/pkg/password"
	"edu-vouchers/internal/usecase/commands"
	"edu-vouchers/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserReadStore struct {
	view         *queries.AuthorizedUserView
	passwordHash string
	lastLoginErr error
	lastLoginFor *uuid.UUID
}

func (s *fakeUserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	if s.view == nil || s.view.ID != id {
		return nil, infra.NewRepoErr("user not found", infra.KindNotFound)
	}
	return s.view, nil
}

func (s *fakeUserReadStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	if s.view == nil || s.view.Email != email {
		return nil, "", infra.NewRepoErr("user not found", infra.KindNotFound)
	}
	return s.view, s.passwordHash, nil
}

func (s *fakeUserReadStore) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	s.lastLoginFor = &id
	return s.lastLoginErr
}

func setupAuth(t *testing.T, rawPassword string, active bool) (*fakeUserReadStore, commands.AuthCommands) {
	t.Helper()

	hash, err := password.HashPassword(rawPassword)
	require.NoError(t, err)

	store := &fakeUserReadStore{
		view: &queries.AuthorizedUserView{
			ID:       uuid.New(),
			Email:    "student@example.com",
			Role:     "student",
			IsActive: active,
		},
		passwordHash: hash,
	}
	return store, commands.NewAuthCommands(store, jwt.NewService("test-secret", time.Hour))
}

func TestAuthCommands_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a signed token", func(t *testing.T) {
		store, svc := setupAuth(t, "password123", true)

		result, err := svc.Login(ctx, "student@example.com", "password123")
		require.NoError(t, err)

		assert.Equal(t, store.view.ID, result.UserID)
		assert.Equal(t, "student", result.Role)
		assert.NotEmpty(t, result.AccessToken)
		require.NotNil(t, store.lastLoginFor)
		assert.Equal(t, store.view.ID, *store.lastLoginFor)
	})

	t.Run("email is normalized before lookup", func(t *testing.T) {
		_, svc := setupAuth(t, "password123", true)

		_, err := svc.Login(ctx, "  Student@Example.com ", "password123")
		require.NoError(t, err)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, svc := setupAuth(t, "password123", true)

		_, errUnknown := svc.Login(ctx, "other@example.com", "password123")
		_, errMismatch := svc.Login(ctx, "student@example.com", "wrong-password")

		assert.ErrorIs(t, errUnknown, commands.ErrInvalidCredentials)
		assert.ErrorIs(t, errMismatch, commands.ErrInvalidCredentials)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, svc := setupAuth(t, "password123", true)

		_, err := svc.Login(ctx, "not-an-email", "password123")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, svc := setupAuth(t, "password123", false)

		_, err := svc.Login(ctx, "student@example.com", "password123")
		assert.ErrorIs(t, err, commands.ErrUserInactive)
	})

	t.Run("login succeeds even when recording last login fails", func(t *testing.T) {
		store, svc := setupAuth(t, "password123", true)
		store.lastLoginErr = infra.NewRepoErr("write failed", infra.KindDBFailure)

		result, err := svc.Login(ctx, "student@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})
}
