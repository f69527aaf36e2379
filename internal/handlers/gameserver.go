package handlers

import (
	"errors"
	"net/http"

	"github.com/akireev/gameauth/internal/apperrors"
	"github.com/akireev/gameauth/internal/handlers/render"
	"github.com/akireev/gameauth/internal/logger"
)

func handleConnect(connectService connectService, logger logger.Logger) http.Handler {
	type request struct {
		ClientToken string `json:"clientToken"`
	}
	type response struct {
		Nickname string `json:"nickname"`
		Coins    int64  `json:"coins"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		player, err := connectService.VerifyConnectToken(r.Context(), data.ClientToken)

		switch {
		case err == nil:
			render.JSON(w, response{Nickname: player.Nickname, Coins: player.Coins})
		case errors.Is(err, apperrors.ErrConnectTokenNotFound):
			// No reason exposed: absent and expired deny the same way
			w.WriteHeader(http.StatusBadRequest)
		default:
			logger.Error("connect token verification failed", "error", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}
