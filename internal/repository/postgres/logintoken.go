package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/models"
)

type LoginTokenRepo struct {
	DB DBTX
}

const saveLoginToken = `-- name: SaveLoginToken
INSERT INTO login_tokens (account_id, token, created_at, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id, account_id, token, created_at, expires_at
`

func (r *LoginTokenRepo) Save(ctx context.Context, token models.LoginToken) (models.LoginToken, error) {
	rows, _ := r.DB.Query(ctx, saveLoginToken, token.AccountID, token.Token, token.CreatedAt, token.ExpiresAt)
	saved, err := pgx.CollectOneRow(rows, rowToLoginToken)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const getAliveLoginToken = `-- name: GetAliveLoginToken
SELECT id, account_id, token, created_at, expires_at
FROM login_tokens
WHERE token = $1 AND expires_at > $2
`

// GetAlive returns the token only while it expires strictly after now.
// Missing and expired tokens look the same to the caller.
func (r *LoginTokenRepo) GetAlive(ctx context.Context, tokenString string, now time.Time) (models.LoginToken, error) {
	rows, _ := r.DB.Query(ctx, getAliveLoginToken, tokenString, now)
	token, err := pgx.CollectOneRow(rows, rowToLoginToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, apperrors.ErrLoginTokenNotFound
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const deleteExpiredLoginTokens = `-- name: DeleteExpiredLoginTokens
DELETE FROM login_tokens
WHERE expires_at < $1
`

func (r *LoginTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpiredLoginTokens, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

func rowToLoginToken(row pgx.CollectableRow) (models.LoginToken, error) {
	var t models.LoginToken
	err := row.Scan(&t.ID, &t.AccountID, &t.Token, &t.CreatedAt, &t.ExpiresAt)
	return t, err
}
