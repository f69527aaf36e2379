package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/akireev/gameauth/internal/handlers"
	"github.com/akireev/gameauth/internal/identity"
	"github.com/akireev/gameauth/internal/logger"
	"github.com/akireev/gameauth/internal/repository"
	"github.com/akireev/gameauth/internal/repository/postgres"
	"github.com/akireev/gameauth/internal/service/auth"
	"github.com/akireev/gameauth/internal/service/gameserver"
	"github.com/akireev/gameauth/internal/service/token"
)

type Services struct {
	Storage        repository.Storage
	AuthService    *auth.AuthService
	ConnectService *gameserver.Service
	Issuer         *token.Issuer
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// Everything the test writes is rolled back when it stops
func ServeWithTx(dbpool *pgxpool.Pool, cfg token.Config, t *testing.T, fn func(srvURL string, s Services)) {
	tx, err := dbpool.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		err := tx.Rollback(t.Context())
		require.NoError(t, err)
	}()

	serveTx(tx, cfg, t, fn)
}

func serveTx(tx pgx.Tx, cfg token.Config, t *testing.T, fn func(srvURL string, s Services)) {
	storage := postgres.NewStorage(tx)

	issuer, err := token.NewIssuer(cfg, storage)
	require.NoError(t, err, "token issuer should be created without errors")

	authService, err := auth.NewService(storage, identity.NewManager(nil), issuer)
	require.NoError(t, err, "auth service starting error")

	connectService, err := gameserver.NewService(storage)
	require.NoError(t, err, "gameserver service starting error")

	router := handlers.NewRouter(authService, connectService, logger.NewNoOp())

	// Run http server with the router in transaction
	srv := httptest.NewServer(router)
	defer srv.Close()

	fn(srv.URL, Services{
		Storage:        storage,
		AuthService:    authService,
		ConnectService: connectService,
		Issuer:         issuer,
	})
}
