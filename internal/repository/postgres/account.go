package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (identity_id)
VALUES ($1)
RETURNING id, created_at, identity_id
`

func (r *AccountRepo) Create(ctx context.Context, identityID uuid.UUID) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, createAccount, identityID)
	account, err := pgx.CollectOneRow(rows, rowToAccount)
	if err != nil {
		return account, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

const getAccountByIdentityID = `-- name: GetAccountByIdentityID
SELECT id, created_at, identity_id
FROM accounts
WHERE identity_id = $1
`

func (r *AccountRepo) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByIdentityID, identityID)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.CreatedAt, &a.IdentityID)
	return a, err
}
