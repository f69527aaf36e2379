package gameserver

import (
	"context"
	"errors"
	"time"

	"github.com/akireev/gameauth/internal/models"
	"github.com/akireev/gameauth/internal/repository"
)

// Service answers the game server's one inbound question: is this
// hand-off credential good, and who is behind it.
type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) (*Service, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	return &Service{storage: storage}, nil
}

// VerifyConnectToken resolves the credential, its account and the
// account's first game profile in one read. Absent and expired tokens
// fail the same way: apperrors.ErrConnectTokenNotFound, no reason leaks.
func (s *Service) VerifyConnectToken(ctx context.Context, tokenString string) (models.ConnectedPlayer, error) {
	return s.storage.ConnectToken().GetAlivePlayer(ctx, tokenString, time.Now().UTC())
}
