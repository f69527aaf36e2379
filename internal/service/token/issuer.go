package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/akireev/gameauth/internal/models"
	"github.com/akireev/gameauth/internal/repository"
)

const (
	defaultLoginTokenTTL   = 10 * 24 * time.Hour
	defaultConnectTokenTTL = 2 * time.Minute

	// 64 random bytes: 512 bits of entropy, collisions are negligible
	// so no uniqueness constraint is kept on the token columns
	tokenLenBytes = 64
)

// Issuer config with sensible defaults
type Config struct {
	// Token lifetimes
	// If not set then defaults are used
	LoginTokenTTL   time.Duration
	ConnectTokenTTL time.Duration
}

// Issuer mints opaque random credentials and persists them with
// component-specific expiries. It never deletes or marks tokens used:
// validity is purely expiry based.
type Issuer struct {
	loginTTL   time.Duration
	connectTTL time.Duration

	storage repository.Storage
}

func NewIssuer(cfg Config, storage repository.Storage) (*Issuer, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.LoginTokenTTL, defaultLoginTokenTTL)
	setDefaultDuration(&cfg.ConnectTokenTTL, defaultConnectTokenTTL)

	return &Issuer{
		loginTTL:   cfg.LoginTokenTTL,
		connectTTL: cfg.ConnectTokenTTL,
		storage:    storage,
	}, nil
}

// IssueLoginToken mints a re-entry credential for the account.
// Several alive tokens may coexist, older ones are not superseded.
func (i *Issuer) IssueLoginToken(ctx context.Context, accountID int64) (models.LoginToken, error) {
	value, err := randomToken()
	if err != nil {
		return models.LoginToken{}, fmt.Errorf("error while generating login token. Err: %w", err)
	}

	now := time.Now().UTC()
	token, err := i.storage.LoginToken().Save(ctx, models.LoginToken{
		AccountID: accountID,
		Token:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(i.loginTTL),
	})
	if err != nil {
		return token, fmt.Errorf("error while saving login token. Err: %w", err)
	}

	return token, nil
}

// IssueConnectToken mints a fresh hand-off credential for the account.
// Always a new token per call, never a reused one.
func (i *Issuer) IssueConnectToken(ctx context.Context, accountID int64) (models.ConnectToken, error) {
	value, err := randomToken()
	if err != nil {
		return models.ConnectToken{}, fmt.Errorf("error while generating connect token. Err: %w", err)
	}

	now := time.Now().UTC()
	token, err := i.storage.ConnectToken().Save(ctx, models.ConnectToken{
		AccountID: accountID,
		Token:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(i.connectTTL),
	})
	if err != nil {
		return token, fmt.Errorf("error while saving connect token. Err: %w", err)
	}

	return token, nil
}

// FindAliveLoginToken returns the login token record only if it exists
// and has not expired. Callers can't tell absent from expired: both are
// apperrors.ErrLoginTokenNotFound.
func (i *Issuer) FindAliveLoginToken(ctx context.Context, tokenString string) (models.LoginToken, error) {
	return i.storage.LoginToken().GetAlive(ctx, tokenString, time.Now().UTC())
}

func randomToken() (string, error) {
	b := make([]byte, tokenLenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}
