package handlers

import (
	"errors"
	"net/http"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/handlers/render"
	"github.com/akireev/gameauth/internal/logger"
	"github.com/akireev/gameauth/internal/service/auth"
)

// Symbolic outcome codes of the authorization endpoints
const (
	msgSuccess     = "Success"
	errDeny        = "Deny"
	errServerError = "ServerError"
	errLoginExists = "LoginExists"
	errInvalidPwd  = "InvalidPassword"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func handleRegister(authService authService, logger logger.Logger) http.Handler {
	type request struct {
		Login    string `json:"login"`
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = authService.Register(r.Context(), data.Login, data.Nickname, data.Password)

		var fieldErr *auth.FieldError
		switch {
		case err == nil:
			render.JSON(w, response{Message: msgSuccess})
		case errors.As(err, &fieldErr):
			render.JSONWithStatus(w, errorResponse{Error: fieldErr.Code, Detail: string(fieldErr.Detail)}, http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrLoginTaken):
			render.JSONWithStatus(w, errorResponse{Error: errLoginExists}, http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrPasswordTooWeak):
			render.JSONWithStatus(w, errorResponse{Error: errInvalidPwd}, http.StatusBadRequest)
		default:
			logger.Error("registration failed", "error", err.Error())
			render.JSONWithStatus(w, errorResponse{Error: errServerError}, http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, logger logger.Logger) http.Handler {
	type request struct {
		Login       string `json:"login"`
		Password    string `json:"password"`
		LoginToken  string `json:"loginToken"`
		CreateToken bool   `json:"createToken"`
	}
	type response struct {
		Message      string `json:"message"`
		LoginToken   string `json:"loginToken"`
		ConnectToken string `json:"connectToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := authService.Login(r.Context(), auth.LoginParams{
			Login:       data.Login,
			Password:    data.Password,
			LoginToken:  data.LoginToken,
			CreateToken: data.CreateToken,
		})

		switch {
		case err == nil:
			render.JSON(w, response{
				Message:      msgSuccess,
				LoginToken:   result.LoginToken,
				ConnectToken: result.ConnectToken,
			})
		case errors.Is(err, apperrors.ErrLoginDenied):
			// Same shape for unknown login and wrong password
			render.JSONWithStatus(w, errorResponse{Error: errDeny}, http.StatusBadRequest)
		default:
			logger.Error("login failed", "error", err.Error())
			render.JSONWithStatus(w, errorResponse{Error: errServerError}, http.StatusInternalServerError)
		}
	})
}
