package readstore

import (
	"context"

	"github.com/google/uuid"

	"edu-vouchers/internal/infra"
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/pkg/pgconv"
	"edu-vouchers/internal/usecase/queries"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const query = `
		SELECT id, email, role, is_active
		FROM users
		WHERE id = $1`

	var v queries.AuthorizedUserView
	err := s.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Email, &v.Role, &v.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &v, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const query = `
		SELECT id, email, role, is_active, password_hash
		FROM users
		WHERE email = $1`

	var (
		v    queries.AuthorizedUserView
		hash string
	)
	err := s.db.QueryRow(ctx, query, email).Scan(&v.ID, &v.Email, &v.Role, &v.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &v, hash, nil
}

func (s *UserReadStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE users
		SET last_login = now(), updated_at = now()
		WHERE id = $1`

	if _, err := s.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

var _ queries.UserReadStore = (*UserReadStore)(nil)
