package models

import (
	"time"
)

// LoginToken is the long-lived re-entry credential. A client holding an
// alive one may log in without retransmitting the password. Multiple
// tokens may coexist for one account; validity is purely expiry based.
type LoginToken struct {
	ID        int64
	AccountID int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ConnectToken is the short-lived hand-off credential the game server
// consumes to accept an already authenticated client.
type ConnectToken struct {
	ID        int64
	AccountID int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
