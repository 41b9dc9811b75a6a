package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"edu-vouchers/internal/domain/user"
	"edu-vouchers/internal/pkg/errs"
	"edu-vouchers/internal/pkg/jwt"
	"edu-vouchers/internal/pkg/password"
	"edu-vouchers/internal/usecase/queries"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrUserInactive       = errs.New("user inactive")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	Role        string
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	normalized, err := user.NewEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	view, hashedPassword, err := a.readStore.FindByEmail(ctx, normalized.String())
	if err != nil {
		// Same error as a password mismatch to prevent user enumeration.
		return nil, ErrInvalidCredentials
	}

	if !view.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	if err := a.readStore.UpdateLastLogin(ctx, view.ID); err != nil {
		// Not critical, the login itself succeeded.
		slog.Warn("failed to update last login", "user_id", view.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      view.ID,
		Role:        view.Role,
		AccessToken: token,
	}, nil
}
