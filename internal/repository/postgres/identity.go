package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/models"
)

type IdentityRepo struct {
	DB DBTX
}

const createIdentity = `-- name: CreateIdentity
INSERT INTO identity_users (id, login, password_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at, login, password_hash
`

func (r *IdentityRepo) Create(ctx context.Context, identity models.Identity) (models.Identity, error) {
	rows, _ := r.DB.Query(ctx, createIdentity, identity.ID, identity.Login, identity.PasswordHash)
	created, err := pgx.CollectOneRow(rows, rowToIdentity)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrLoginTaken
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getIdentityByLogin = `-- name: GetIdentityByLogin
SELECT id, created_at, login, password_hash
FROM identity_users
WHERE login = $1
`

func (r *IdentityRepo) GetByLogin(ctx context.Context, login string) (models.Identity, error) {
	rows, _ := r.DB.Query(ctx, getIdentityByLogin, login)
	identity, err := pgx.CollectOneRow(rows, rowToIdentity)

	switch {
	case err == nil:
		return identity, nil
	case errors.Is(err, pgx.ErrNoRows):
		return identity, apperrors.ErrIdentityNotFound
	default:
		return identity, fmt.Errorf("db error: %w", err)
	}
}

const getIdentityByID = `-- name: GetIdentityByID
SELECT id, created_at, login, password_hash
FROM identity_users
WHERE id = $1
`

func (r *IdentityRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Identity, error) {
	rows, _ := r.DB.Query(ctx, getIdentityByID, id)
	identity, err := pgx.CollectOneRow(rows, rowToIdentity)

	switch {
	case err == nil:
		return identity, nil
	case errors.Is(err, pgx.ErrNoRows):
		return identity, apperrors.ErrIdentityNotFound
	default:
		return identity, fmt.Errorf("db error: %w", err)
	}
}

func rowToIdentity(row pgx.CollectableRow) (models.Identity, error) {
	var i models.Identity
	err := row.Scan(&i.ID, &i.CreatedAt, &i.Login, &i.PasswordHash)
	return i, err
}
