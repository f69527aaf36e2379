package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is a user record owned by the identity subsystem.
// It is keyed by login name and never exposes the password hash outward.
type Identity struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Login        string
	PasswordHash string
}
