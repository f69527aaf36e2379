package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/models"
)

type GameProfileRepo struct {
	DB DBTX
}

const createProfile = `-- name: CreateGameProfile
INSERT INTO game_profiles (account_id, nickname)
VALUES ($1, $2)
RETURNING id, account_id, nickname, coins
`

func (r *GameProfileRepo) Create(ctx context.Context, accountID int64, nickname string) (models.GameProfile, error) {
	rows, _ := r.DB.Query(ctx, createProfile, accountID, nickname)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)
	if err != nil {
		return profile, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

const getFirstProfile = `-- name: GetFirstGameProfile
SELECT id, account_id, nickname, coins
FROM game_profiles
WHERE account_id = $1
ORDER BY id
LIMIT 1
`

func (r *GameProfileRepo) GetFirstByAccountID(ctx context.Context, accountID int64) (models.GameProfile, error) {
	rows, _ := r.DB.Query(ctx, getFirstProfile, accountID)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrProfileNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

func rowToProfile(row pgx.CollectableRow) (models.GameProfile, error) {
	var p models.GameProfile
	err := row.Scan(&p.ID, &p.AccountID, &p.Nickname, &p.Coins)
	return p, err
}
