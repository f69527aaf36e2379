package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/identity"
	"github.com/akireev/gameauth/internal/models"
	"github.com/akireev/gameauth/internal/repository"
	"github.com/akireev/gameauth/internal/validate"
)

// Field codes for validation failures, match the wire format
const (
	CodeInvalidLogin    = "InvalidLogin"
	CodeInvalidNickname = "InvalidNickname"
)

// FieldError is a structured validation failure: which field and why
type FieldError struct {
	Code   string
	Detail validate.Outcome
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

type tokenIssuer interface {
	IssueLoginToken(ctx context.Context, accountID int64) (models.LoginToken, error)
	IssueConnectToken(ctx context.Context, accountID int64) (models.ConnectToken, error)
	FindAliveLoginToken(ctx context.Context, tokenString string) (models.LoginToken, error)
}

// AuthService owns the registration and login flows
type AuthService struct {
	storage repository.Storage
	gate    identity.Gate
	tokens  tokenIssuer
}

func NewService(storage repository.Storage, gate identity.Gate, tokens tokenIssuer) (*AuthService, error) {
	if storage == nil || tokens == nil {
		return nil, errors.New("storage and token issuer must not be nil")
	}

	if gate == nil {
		gate = identity.NewManager(nil)
	}

	return &AuthService{
		storage: storage,
		gate:    gate,
		tokens:  tokens,
	}, nil
}

// Register validates input, then creates identity, account and game
// profile as one atomic unit. On any failure inside the transaction
// nothing is persisted.
func (s *AuthService) Register(ctx context.Context, login string, nickname string, password string) error {
	if outcome := validate.Login(login); outcome != validate.Success {
		return &FieldError{Code: CodeInvalidLogin, Detail: outcome}
	}

	if outcome := validate.Nickname(nickname); outcome != validate.Success {
		return &FieldError{Code: CodeInvalidNickname, Detail: outcome}
	}

	return s.storage.InTx(ctx, func(st repository.Storage) error {
		ident, err := s.gate.CreateIdentity(ctx, st.Identity(), login, password)
		if err != nil {
			return err
		}

		account, err := st.Account().Create(ctx, ident.ID)
		if err != nil {
			return err
		}

		_, err = st.Profile().Create(ctx, account.ID, nickname)
		return err
	})
}

type LoginParams struct {
	Login    string
	Password string

	// Re-entry credential candidate; when alive the password path is skipped
	LoginToken string

	// Mint a new re-entry credential on the password path
	CreateToken bool
}

// Both fields empty-string when not issued
type LoginResult struct {
	LoginToken   string
	ConnectToken string
}

// Login runs the re-entry fast path first, falling back to the password
// path. An unknown login and a wrong password fail identically with
// apperrors.ErrLoginDenied so the caller can't enumerate accounts.
func (s *AuthService) Login(ctx context.Context, p LoginParams) (LoginResult, error) {
	if p.LoginToken != "" {
		token, err := s.tokens.FindAliveLoginToken(ctx, p.LoginToken)

		switch {
		case err == nil:
			// Alive re-entry credential: skip the password entirely.
			// The credential itself is not reissued.
			connect, err := s.tokens.IssueConnectToken(ctx, token.AccountID)
			if err != nil {
				return LoginResult{}, err
			}

			return LoginResult{ConnectToken: connect.Token}, nil
		case !errors.Is(err, apperrors.ErrLoginTokenNotFound):
			return LoginResult{}, err
		}
		// Dead or unknown token: fall through to the password path
	}

	ident, err := s.gate.FindByLogin(ctx, s.storage.Identity(), p.Login)
	switch {
	case errors.Is(err, apperrors.ErrIdentityNotFound):
		return LoginResult{}, apperrors.ErrLoginDenied
	case err != nil:
		return LoginResult{}, err
	}

	ok, err := s.gate.VerifyPassword(ctx, s.storage.Identity(), ident.ID, p.Password)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, apperrors.ErrLoginDenied
	}

	if !p.CreateToken {
		return LoginResult{}, nil
	}

	account, err := s.storage.Account().GetByIdentityID(ctx, ident.ID)
	if err != nil {
		return LoginResult{}, err
	}

	loginToken, err := s.tokens.IssueLoginToken(ctx, account.ID)
	if err != nil {
		return LoginResult{}, err
	}

	connectToken, err := s.tokens.IssueConnectToken(ctx, account.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		LoginToken:   loginToken.Token,
		ConnectToken: connectToken.Token,
	}, nil
}
