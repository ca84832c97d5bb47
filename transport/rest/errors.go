package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps the error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotAParticipant):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotJoinable), errors.Is(err, apperror.ErrAlreadyInSession):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrLockNotAcquired):
		return http.StatusServiceUnavailable
	case apperror.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Handlers) writeBadRequest(w http.ResponseWriter, err error) {
	that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
