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

type ConnectTokenRepo struct {
	DB DBTX
}

const saveConnectToken = `-- name: SaveConnectToken
INSERT INTO connect_tokens (account_id, token, created_at, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id, account_id, token, created_at, expires_at
`

func (r *ConnectTokenRepo) Save(ctx context.Context, token models.ConnectToken) (models.ConnectToken, error) {
	rows, _ := r.DB.Query(ctx, saveConnectToken, token.AccountID, token.Token, token.CreatedAt, token.ExpiresAt)
	saved, err := pgx.CollectOneRow(rows, rowToConnectToken)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const getAlivePlayer = `-- name: GetAlivePlayerByConnectToken
SELECT p.nickname, p.coins
FROM connect_tokens t
JOIN accounts a ON a.id = t.account_id
JOIN game_profiles p ON p.account_id = a.id
WHERE t.token = $1 AND t.expires_at >= $2
ORDER BY p.id
LIMIT 1
`

// GetAlivePlayer resolves the token, its account and the account's first
// game profile in one read. The token is honored up to and including its
// expiry moment.
func (r *ConnectTokenRepo) GetAlivePlayer(ctx context.Context, tokenString string, now time.Time) (models.ConnectedPlayer, error) {
	rows, _ := r.DB.Query(ctx, getAlivePlayer, tokenString, now)
	player, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.ConnectedPlayer, error) {
		var p models.ConnectedPlayer
		err := row.Scan(&p.Nickname, &p.Coins)
		return p, err
	})

	switch {
	case err == nil:
		return player, nil
	case errors.Is(err, pgx.ErrNoRows):
		return player, apperrors.ErrConnectTokenNotFound
	default:
		return player, fmt.Errorf("db error: %w", err)
	}
}

const deleteExpiredConnectTokens = `-- name: DeleteExpiredConnectTokens
DELETE FROM connect_tokens
WHERE expires_at < $1
`

func (r *ConnectTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpiredConnectTokens, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

func rowToConnectToken(row pgx.CollectableRow) (models.ConnectToken, error) {
	var t models.ConnectToken
	err := row.Scan(&t.ID, &t.AccountID, &t.Token, &t.CreatedAt, &t.ExpiresAt)
	return t, err
}
