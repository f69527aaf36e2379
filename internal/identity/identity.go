package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/models"
	"github.com/akireev/gameauth/internal/repository"
)

// Minimal gate-owned password policy
const minPasswordLen = 6

// Gate is the identity-management capability the flows depend on.
// The repo handle is passed per call so gate writes join the caller's
// transaction instead of going through a process-wide store.
type Gate interface {
	// Create identity with login and password
	// If the login is taken must return apperrors.ErrLoginTaken
	// If the password fails the gate's policy must return apperrors.ErrPasswordTooWeak
	CreateIdentity(ctx context.Context, users repository.IdentityRepo, login string, password string) (models.Identity, error)

	// Find identity by login
	// If not found must return apperrors.ErrIdentityNotFound
	FindByLogin(ctx context.Context, users repository.IdentityRepo, login string) (models.Identity, error)

	// Check the password against the identity's stored hash
	// Returns false on mismatch; error only on internal failure
	VerifyPassword(ctx context.Context, users repository.IdentityRepo, id uuid.UUID, password string) (bool, error)
}

// Manager is the default Gate over the identity_users records.
// Raw passwords pass through exactly once and are never stored or logged.
type Manager struct {
	hasher PasswordHasher
}

func NewManager(hasher PasswordHasher) *Manager {
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	return &Manager{hasher: hasher}
}

func (m *Manager) CreateIdentity(ctx context.Context, users repository.IdentityRepo, login string, password string) (models.Identity, error) {
	if len(password) < minPasswordLen {
		return models.Identity{}, apperrors.ErrPasswordTooWeak
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	identity, err := users.Create(ctx, models.Identity{
		ID:           uuid.New(),
		Login:        login,
		PasswordHash: hash,
	})
	if err != nil {
		return identity, err
	}

	return identity, nil
}

func (m *Manager) FindByLogin(ctx context.Context, users repository.IdentityRepo, login string) (models.Identity, error) {
	return users.GetByLogin(ctx, login)
}

func (m *Manager) VerifyPassword(ctx context.Context, users repository.IdentityRepo, id uuid.UUID, password string) (bool, error) {
	identity, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrIdentityNotFound) {
			return false, nil
		}
		return false, err
	}

	return m.hasher.Compare(identity.PasswordHash, password) == nil, nil
}
