package rest

import (
	"net/http"
	"strings"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
)

type identifiedHandler func(w http.ResponseWriter, r *http.Request, playerID string)

// authenticated resolves the participant from the bearer token.
func (that *Handlers) authenticated(next identifiedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			that.writeError(w, apperror.ErrUnauthorized)
			return
		}

		playerID, err := that.auth.ParseToken(token)
		if err != nil {
			that.writeError(w, err)
			return
		}

		next(w, r, playerID)
	})
}
