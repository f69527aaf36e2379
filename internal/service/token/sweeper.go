package token

import (
	"context"
	"time"

	"github.com/akireev/gameauth/internal/logger"
	"github.com/akireev/gameauth/internal/repository"
)

const defaultSweepInterval = 10 * time.Minute

// Sweeper periodically deletes expired token rows. Purely operational:
// alive-token queries filter on expiry themselves and never depend on
// the sweep having run.
type Sweeper struct {
	interval time.Duration
	storage  repository.Storage
	logger   logger.Logger
}

func NewSweeper(interval time.Duration, storage repository.Storage, logger logger.Logger) *Sweeper {
	if interval == 0 {
		interval = defaultSweepInterval
	}

	return &Sweeper{
		interval: interval,
		storage:  storage,
		logger:   logger,
	}
}

// Run sweeps on a ticker until the context is cancelled.
// The returned channel is closed when the sweeper has stopped.
func (s *Sweeper) Run(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("token sweeper stopped")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	return stopped
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()

	loginDeleted, err := s.storage.LoginToken().DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to sweep expired login tokens", "error", err.Error())
		return
	}

	connectDeleted, err := s.storage.ConnectToken().DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to sweep expired connect tokens", "error", err.Error())
		return
	}

	if loginDeleted > 0 || connectDeleted > 0 {
		s.logger.Info("expired tokens swept", "login", loginDeleted, "connect", connectDeleted)
	}
}
