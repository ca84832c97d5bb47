package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperror.ErrNotFound, http.StatusNotFound},
		{apperror.ErrNotAParticipant, http.StatusForbidden},
		{apperror.ErrUnauthorized, http.StatusUnauthorized},
		{apperror.ErrNotJoinable, http.StatusConflict},
		{apperror.ErrAlreadyInSession, http.StatusConflict},
		{apperror.ErrInvalidState, http.StatusBadRequest},
		{apperror.ErrNotYourTurn, http.StatusBadRequest},
		{apperror.ErrTimeout, http.StatusBadRequest},
		{apperror.ErrInvalidTile, http.StatusBadRequest},
		{apperror.ErrInvalidMode, http.StatusBadRequest},
		{apperror.ErrLockNotAcquired, http.StatusServiceUnavailable},
		{apperror.ErrExhaustedTiles, http.StatusInternalServerError},
		{apperror.ErrAllocationExhausted, http.StatusInternalServerError},
		{errors.New("redis down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusOf(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}
