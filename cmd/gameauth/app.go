package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akireev/gameauth/internal/db"
	"github.com/akireev/gameauth/internal/handlers"
	"github.com/akireev/gameauth/internal/identity"
	"github.com/akireev/gameauth/internal/logger"
	"github.com/akireev/gameauth/internal/repository/postgres"
	"github.com/akireev/gameauth/internal/service/auth"
	"github.com/akireev/gameauth/internal/service/gameserver"
	"github.com/akireev/gameauth/internal/service/token"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	sweeper *token.Sweeper
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	logger := logger.New(c.Environment, c.LogLevel)

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	gate := identity.NewManager(nil)
	issuer, err := token.NewIssuer(token.Config{}, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating token issuer. Err: %w", err)
	}
	authService, err := auth.NewService(storage, gate, issuer)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	connectService, err := gameserver.NewService(storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating gameserver service. Err: %w", err)
	}

	mux := handlers.NewRouter(authService, connectService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		sweeper:    token.NewSweeper(0, storage, logger),
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// Sweep expired token rows in the background
	sweeperStopped := s.sweeper.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-sweeperStopped

	return err
}
