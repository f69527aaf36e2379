package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akireev/gameauth/internal/models"
)

// Storage is the transactional store all flows write through.
// InTx runs fn with a Storage bound to one db transaction: commits if
// fn returns nil, rolls back otherwise. No other coordination exists.
type Storage interface {
	Identity() IdentityRepo
	Account() AccountRepo
	Profile() GameProfileRepo
	LoginToken() LoginTokenRepo
	ConnectToken() ConnectTokenRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}

// Identity user records. Owned by the identity subsystem, keyed by login.
type IdentityRepo interface {
	// Create identity
	// If the login is already taken must return apperrors.ErrLoginTaken
	Create(ctx context.Context, identity models.Identity) (models.Identity, error)

	// Get identity by login or id
	// If not found must return apperrors.ErrIdentityNotFound
	GetByLogin(ctx context.Context, login string) (models.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Identity, error)
}

type AccountRepo interface {
	// Create account referencing the identity
	Create(ctx context.Context, identityID uuid.UUID) (models.Account, error)

	// Get account bound to identity
	// If not found must return apperrors.ErrAccountNotFound
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (models.Account, error)
}

type GameProfileRepo interface {
	// Create profile for the account with zero coins
	Create(ctx context.Context, accountID int64, nickname string) (models.GameProfile, error)

	// Get the first profile of the account (ordered by profile id)
	// If not found must return apperrors.ErrProfileNotFound
	GetFirstByAccountID(ctx context.Context, accountID int64) (models.GameProfile, error)
}

type LoginTokenRepo interface {
	// Save token as is
	Save(ctx context.Context, token models.LoginToken) (models.LoginToken, error)

	// Return the token only if it exists and expires strictly after now.
	// Absent and expired are indistinguishable: both must return
	// apperrors.ErrLoginTokenNotFound
	GetAlive(ctx context.Context, tokenString string, now time.Time) (models.LoginToken, error)

	// Delete tokens expired before the given moment, return deleted count
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type ConnectTokenRepo interface {
	// Save token as is
	Save(ctx context.Context, token models.ConnectToken) (models.ConnectToken, error)

	// Resolve token together with the owning account's first game profile
	// in one read. A token is honored while expires_at >= now.
	// Absent and expired both must return apperrors.ErrConnectTokenNotFound
	GetAlivePlayer(ctx context.Context, tokenString string, now time.Time) (models.ConnectedPlayer, error)

	// Delete tokens expired before the given moment, return deleted count
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
