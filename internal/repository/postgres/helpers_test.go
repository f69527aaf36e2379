package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/akireev/gameauth/internal/models"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

// Create identity and account rows to satisfy token foreign keys
func createTestAccount(t *testing.T, tx pgx.Tx) models.Account {
	t.Helper()

	identityRepo := IdentityRepo{DB: tx}
	identity, err := identityRepo.Create(t.Context(), models.Identity{
		ID:           uuid.New(),
		Login:        "login-" + uuid.NewString()[:8],
		PasswordHash: "fake-hash",
	})
	require.NoError(t, err, "identity should be created for the test account")

	accountRepo := AccountRepo{DB: tx}
	account, err := accountRepo.Create(t.Context(), identity.ID)
	require.NoError(t, err, "account should be created")

	return account
}
