package handlers

import (
	"context"
	"net/http"

	"github.com/akireev/gameauth/internal/handlers/middleware"
	"github.com/akireev/gameauth/internal/logger"
	"github.com/akireev/gameauth/internal/models"
	"github.com/akireev/gameauth/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	connectService connectService,
	logger logger.Logger,
) http.Handler {
	authorization := http.NewServeMux()
	authorization.Handle("POST /register", handleRegister(authService, logger))
	authorization.Handle("POST /login", handleLogin(authService, logger))

	gameserver := http.NewServeMux()
	gameserver.Handle("POST /connect", handleConnect(connectService, logger))

	root := http.NewServeMux()
	root.Handle("/api/authorization/", http.StripPrefix("/api/authorization", authorization))
	root.Handle("/api/gameserver/", http.StripPrefix("/api/gameserver", gameserver))

	return chain(root,
		middleware.LoggerMiddleware(logger),
	)
}

type authService interface {
	// Register account with login, nickname and password
	// Validation failures come back as *auth.FieldError
	// Gate failures as apperrors.ErrLoginTaken or apperrors.ErrPasswordTooWeak
	Register(ctx context.Context, login string, nickname string, password string) error

	// Login via re-entry credential fast path or password path
	// Denied attempts fail with apperrors.ErrLoginDenied
	Login(ctx context.Context, p auth.LoginParams) (auth.LoginResult, error)
}

type connectService interface {
	// Verify the hand-off credential
	// Absent or expired tokens fail with apperrors.ErrConnectTokenNotFound
	VerifyConnectToken(ctx context.Context, tokenString string) (models.ConnectedPlayer, error)
}
