package auth

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/identity"
	"github.com/akireev/gameauth/internal/repository"
	"github.com/akireev/gameauth/internal/repository/postgres"
	"github.com/akireev/gameauth/internal/service/token"
	"github.com/akireev/gameauth/internal/testutil"
	"github.com/akireev/gameauth/internal/validate"
)

func Test_Auth(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create new AuthService over it
	// Rollback transaction when test stops
	withService := func(dbpool *pgxpool.Pool, cfg token.Config, t *testing.T, fn func(s *AuthService, storage repository.Storage)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			issuer, err := token.NewIssuer(cfg, storage)
			require.NoError(t, err, "token issuer should be created without errors")

			s, err := NewService(storage, identity.NewManager(nil), issuer)
			require.NoError(t, err, "auth service couldn't be started")

			fn(s, storage)
		})
	}

	t.Run("Register", func(t *testing.T) {
		t.Run("new account ok", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, storage repository.Storage) {
				err := s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd")

				require.NoError(t, err)

				ident, err := storage.Identity().GetByLogin(t.Context(), "validlogin")
				require.NoError(t, err, "identity should exist after registration")
				account, err := storage.Account().GetByIdentityID(t.Context(), ident.ID)
				require.NoError(t, err, "account should exist after registration")
				profile, err := storage.Profile().GetFirstByAccountID(t.Context(), account.ID)
				require.NoError(t, err, "game profile should exist after registration")
				require.Equal(t, "Nick1", profile.Nickname)
				require.Equal(t, int64(0), profile.Coins, "profile starts with zero coins")
			})
		})

		validationTests := []struct {
			name     string
			login    string
			nickname string
			code     string
			detail   validate.Outcome
		}{
			{name: "short login", login: "ab", nickname: "Nick1", code: CodeInvalidLogin, detail: validate.TooShort},
			{name: "empty login", login: "  ", nickname: "Nick1", code: CodeInvalidLogin, detail: validate.Empty},
			{name: "long login", login: "waytoolongloginname", nickname: "Nick1", code: CodeInvalidLogin, detail: validate.TooLong},
			{name: "short nickname", login: "validlogin", nickname: "ab", code: CodeInvalidNickname, detail: validate.TooShort},
			{name: "bad nickname characters", login: "validlogin", nickname: "Nick_1", code: CodeInvalidNickname, detail: validate.InvalidCharacters},
		}

		for _, tt := range validationTests {
			t.Run(tt.name, func(t *testing.T) {
				withService(pg.Pool, token.Config{}, t, func(s *AuthService, storage repository.Storage) {
					err := s.Register(t.Context(), tt.login, tt.nickname, "secret-pwd")

					var fieldErr *FieldError
					require.ErrorAs(t, err, &fieldErr)
					require.Equal(t, tt.code, fieldErr.Code)
					require.Equal(t, tt.detail, fieldErr.Detail)

					_, err = storage.Identity().GetByLogin(t.Context(), tt.login)
					require.ErrorIs(t, err, apperrors.ErrIdentityNotFound, "nothing should be persisted")
				})
			})
		}

		t.Run("duplicate login leaves no partial state", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, storage repository.Storage) {
				err := s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd")
				require.NoError(t, err)

				err = s.Register(t.Context(), "validlogin", "Nick2", "other-pwd")
				require.ErrorIs(t, err, apperrors.ErrLoginTaken)

				// Exactly the first registration persisted, no second account or profile
				ident, err := storage.Identity().GetByLogin(t.Context(), "validlogin")
				require.NoError(t, err)
				account, err := storage.Account().GetByIdentityID(t.Context(), ident.ID)
				require.NoError(t, err)
				profile, err := storage.Profile().GetFirstByAccountID(t.Context(), account.ID)
				require.NoError(t, err)
				require.Equal(t, "Nick1", profile.Nickname)
			})
		})

		t.Run("weak password rejected atomically", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, storage repository.Storage) {
				err := s.Register(t.Context(), "validlogin", "Nick1", "pw")

				require.ErrorIs(t, err, apperrors.ErrPasswordTooWeak)

				_, err = storage.Identity().GetByLogin(t.Context(), "validlogin")
				require.ErrorIs(t, err, apperrors.ErrIdentityNotFound)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("password path without token request", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, _ repository.Storage) {
				require.NoError(t, s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd"))

				result, err := s.Login(t.Context(), LoginParams{Login: "validlogin", Password: "secret-pwd"})

				require.NoError(t, err)
				require.Empty(t, result.LoginToken, "no re-entry credential requested")
				require.Empty(t, result.ConnectToken, "no hand-off credential without CreateToken")
			})
		})

		t.Run("password path with CreateToken issues both credentials", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, _ repository.Storage) {
				require.NoError(t, s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd"))

				result, err := s.Login(t.Context(), LoginParams{
					Login:       "validlogin",
					Password:    "secret-pwd",
					CreateToken: true,
				})

				require.NoError(t, err)
				require.NotEmpty(t, result.LoginToken)
				require.NotEmpty(t, result.ConnectToken)
				require.NotEqual(t, result.LoginToken, result.ConnectToken)
			})
		})

		t.Run("unknown login and wrong password fail identically", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, _ repository.Storage) {
				require.NoError(t, s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd"))

				_, errUnknown := s.Login(t.Context(), LoginParams{Login: "nosuchlogin", Password: "secret-pwd"})
				_, errWrongPwd := s.Login(t.Context(), LoginParams{Login: "validlogin", Password: "wrong-pwd"})

				require.ErrorIs(t, errUnknown, apperrors.ErrLoginDenied)
				require.ErrorIs(t, errWrongPwd, apperrors.ErrLoginDenied)
				require.Equal(t, errUnknown, errWrongPwd, "deny must carry no enumeration signal")
			})
		})

		t.Run("re-entry fast path skips password", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, _ repository.Storage) {
				require.NoError(t, s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd"))
				first, err := s.Login(t.Context(), LoginParams{
					Login: "validlogin", Password: "secret-pwd", CreateToken: true,
				})
				require.NoError(t, err)

				// No login, no password: just the re-entry credential
				second, err := s.Login(t.Context(), LoginParams{LoginToken: first.LoginToken})

				require.NoError(t, err)
				require.Empty(t, second.LoginToken, "re-entry credential is not reissued")
				require.NotEmpty(t, second.ConnectToken, "fresh hand-off credential is minted")
				require.NotEqual(t, first.ConnectToken, second.ConnectToken)
			})
		})

		t.Run("re-entry credential reusable until expiry", func(t *testing.T) {
			withService(pg.Pool, token.Config{}, t, func(s *AuthService, _ repository.Storage) {
				require.NoError(t, s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd"))
				first, err := s.Login(t.Context(), LoginParams{
					Login: "validlogin", Password: "secret-pwd", CreateToken: true,
				})
				require.NoError(t, err)

				_, err = s.Login(t.Context(), LoginParams{LoginToken: first.LoginToken})
				require.NoError(t, err)
				_, err = s.Login(t.Context(), LoginParams{LoginToken: first.LoginToken})
				require.NoError(t, err, "credential is not single use")
			})
		})

		t.Run("expired re-entry credential falls back to password path", func(t *testing.T) {
			withService(pg.Pool, token.Config{LoginTokenTTL: time.Millisecond}, t, func(s *AuthService, _ repository.Storage) {
				require.NoError(t, s.Register(t.Context(), "validlogin", "Nick1", "secret-pwd"))
				first, err := s.Login(t.Context(), LoginParams{
					Login: "validlogin", Password: "secret-pwd", CreateToken: true,
				})
				require.NoError(t, err)

				time.Sleep(5 * time.Millisecond)

				// Dead token with valid password still logs in
				result, err := s.Login(t.Context(), LoginParams{
					Login:      "validlogin",
					Password:   "secret-pwd",
					LoginToken: first.LoginToken,
				})
				require.NoError(t, err)
				require.Empty(t, result.ConnectToken)

				// Dead token alone is denied
				_, err = s.Login(t.Context(), LoginParams{LoginToken: first.LoginToken})
				require.ErrorIs(t, err, apperrors.ErrLoginDenied)
			})
		})
	})
}
