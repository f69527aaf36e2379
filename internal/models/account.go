package models

import (
	"time"

	"github.com/google/uuid"
)

// Account binds an identity to the game-side data.
// Exactly one Account exists per registered identity.
type Account struct {
	ID         int64
	CreatedAt  time.Time
	IdentityID uuid.UUID
}

// GameProfile belongs to one Account. Nickname uniqueness is not enforced.
// Coins are mutated by game-server-side logic only.
type GameProfile struct {
	ID        int64
	AccountID int64
	Nickname  string
	Coins     int64
}

// ConnectedPlayer is what the game server learns about an account
// after a successful connect-token verification.
type ConnectedPlayer struct {
	Nickname string
	Coins    int64
}
