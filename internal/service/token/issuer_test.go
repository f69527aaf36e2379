package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/models"
	"github.com/akireev/gameauth/internal/repository"
	"github.com/akireev/gameauth/internal/repository/postgres"
	"github.com/akireev/gameauth/internal/testutil"
)

func Test_Issuer(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createAccount := func(t *testing.T, storage repository.Storage) models.Account {
		t.Helper()
		identity, err := storage.Identity().Create(t.Context(), models.Identity{
			ID:           uuid.New(),
			Login:        "login-" + uuid.NewString()[:8],
			PasswordHash: "fake-hash",
		})
		require.NoError(t, err)
		account, err := storage.Account().Create(t.Context(), identity.ID)
		require.NoError(t, err)
		return account
	}

	withIssuer := func(cfg Config, t *testing.T, fn func(i *Issuer, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			issuer, err := NewIssuer(cfg, storage)
			require.NoError(t, err, "issuer should be created without errors")

			fn(issuer, storage)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		withIssuer(Config{}, t, func(i *Issuer, _ repository.Storage) {
			require.Equal(t, 10*24*time.Hour, i.loginTTL, "login token TTL should default to 10 days")
			require.Equal(t, 2*time.Minute, i.connectTTL, "connect token TTL should default to 2 minutes")
		})
	})

	t.Run("nil storage fails", func(t *testing.T) {
		_, err := NewIssuer(Config{}, nil)
		require.Error(t, err)
	})

	t.Run("issue login token", func(t *testing.T) {
		withIssuer(Config{}, t, func(i *Issuer, storage repository.Storage) {
			account := createAccount(t, storage)

			token, err := i.IssueLoginToken(t.Context(), account.ID)

			require.NoError(t, err)
			require.Equal(t, account.ID, token.AccountID)
			require.WithinDuration(t, time.Now().UTC(), token.CreatedAt, 5*time.Second)
			require.WithinDuration(t, token.CreatedAt.Add(10*24*time.Hour), token.ExpiresAt, time.Microsecond)

			raw, err := base64.StdEncoding.DecodeString(token.Token)
			require.NoError(t, err, "token value should be valid base64")
			require.Len(t, raw, 64, "token should carry 64 random bytes")
		})
	})

	t.Run("issue connect token", func(t *testing.T) {
		withIssuer(Config{}, t, func(i *Issuer, storage repository.Storage) {
			account := createAccount(t, storage)

			token, err := i.IssueConnectToken(t.Context(), account.ID)

			require.NoError(t, err)
			require.Equal(t, account.ID, token.AccountID)
			require.WithinDuration(t, token.CreatedAt.Add(2*time.Minute), token.ExpiresAt, time.Microsecond)

			raw, err := base64.StdEncoding.DecodeString(token.Token)
			require.NoError(t, err)
			require.Len(t, raw, 64)
		})
	})

	t.Run("tokens are unique per issue", func(t *testing.T) {
		withIssuer(Config{}, t, func(i *Issuer, storage repository.Storage) {
			account := createAccount(t, storage)

			first, err := i.IssueConnectToken(t.Context(), account.ID)
			require.NoError(t, err)
			second, err := i.IssueConnectToken(t.Context(), account.ID)
			require.NoError(t, err)

			require.NotEqual(t, first.Token, second.Token, "every issue must mint a fresh value")
		})
	})

	t.Run("find alive login token", func(t *testing.T) {
		withIssuer(Config{}, t, func(i *Issuer, storage repository.Storage) {
			account := createAccount(t, storage)
			issued, err := i.IssueLoginToken(t.Context(), account.ID)
			require.NoError(t, err)

			found, err := i.FindAliveLoginToken(t.Context(), issued.Token)

			require.NoError(t, err)
			require.Equal(t, issued.AccountID, found.AccountID)
		})
	})

	t.Run("expired login token not found", func(t *testing.T) {
		withIssuer(Config{LoginTokenTTL: time.Millisecond}, t, func(i *Issuer, storage repository.Storage) {
			account := createAccount(t, storage)
			issued, err := i.IssueLoginToken(t.Context(), account.ID)
			require.NoError(t, err)

			time.Sleep(5 * time.Millisecond)

			_, err = i.FindAliveLoginToken(t.Context(), issued.Token)

			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrLoginTokenNotFound)
		})
	})

	t.Run("unknown login token not found", func(t *testing.T) {
		withIssuer(Config{}, t, func(i *Issuer, _ repository.Storage) {
			_, err := i.FindAliveLoginToken(t.Context(), "never-issued")

			require.ErrorIs(t, err, apperrors.ErrLoginTokenNotFound)
		})
	})
}
