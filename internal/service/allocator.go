package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
	"github.com/rocketscienceinc/blackwhite-backend/internal/pkg"
)

const defaultCodeRetries = 10

type codeClaimer interface {
	// ClaimCode binds code to sessionID unless the code is already taken.
	ClaimCode(ctx context.Context, code, sessionID string) (bool, error)
}

// Allocator hands out join codes that are unique across live sessions.
type Allocator struct {
	logger   *slog.Logger
	claimer  codeClaimer
	generate func() (string, error)
	retries  int
}

func NewAllocator(logger *slog.Logger, claimer codeClaimer, retries int) *Allocator {
	if retries <= 0 {
		retries = defaultCodeRetries
	}

	return &Allocator{
		logger:   logger.With("component", "allocator"),
		claimer:  claimer,
		generate: pkg.GenerateRoomCode,
		retries:  retries,
	}
}

// WithGenerator replaces the code source, used by tests to force collisions.
func (that *Allocator) WithGenerator(generate func() (string, error)) *Allocator {
	that.generate = generate

	return that
}

// Allocate draws codes until one is claimed for sessionID.
func (that *Allocator) Allocate(ctx context.Context, sessionID string) (string, error) {
	log := that.logger.With("method", "Allocate", "session", sessionID)

	for attempt := 1; attempt <= that.retries; attempt++ {
		code, err := that.generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}

		claimed, err := that.claimer.ClaimCode(ctx, code, sessionID)
		if err != nil {
			return "", fmt.Errorf("failed to claim code: %w", err)
		}

		if claimed {
			return code, nil
		}

		log.Debug("code collision", "code", code, "attempt", attempt)
	}

	return "", fmt.Errorf("%w: %d attempts", apperror.ErrAllocationExhausted, that.retries)
}
