// Package retention reclaims terminal sessions once a participant has
// accumulated more than the configured number of them.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

const (
	DefaultKeepLast = 3
	DefaultTimeout  = 5 * time.Second
)

type sessionStore interface {
	ListByPlayer(ctx context.Context, playerID string) ([]*entity.Session, error)
	Delete(ctx context.Context, session *entity.Session) error
}

type Keeper struct {
	logger   *slog.Logger
	store    sessionStore
	keepLast int
	timeout  time.Duration

	wg sync.WaitGroup
}

func NewKeeper(logger *slog.Logger, store sessionStore, keepLast int, timeout time.Duration) *Keeper {
	if keepLast <= 0 {
		keepLast = DefaultKeepLast
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Keeper{
		logger:   logger.With("component", "retention"),
		store:    store,
		keepLast: keepLast,
		timeout:  timeout,
	}
}

// SessionEnded schedules a sweep for playerID and returns immediately.
// The sweep outlives the caller's context but not the keeper's timeout.
func (that *Keeper) SessionEnded(ctx context.Context, playerID string) {
	that.wg.Add(1)

	go func() {
		defer that.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.timeout)
		defer cancel()

		if err := that.Sweep(ctx, playerID); err != nil {
			that.logger.Error("retention sweep failed", "player", playerID, "error", err)
		}
	}()
}

// Sweep deletes the terminal sessions of playerID beyond the newest keepLast.
func (that *Keeper) Sweep(ctx context.Context, playerID string) error {
	sessions, err := that.store.ListByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	kept := 0
	for _, session := range sessions {
		if !session.IsTerminal() {
			continue
		}

		if kept < that.keepLast {
			kept++
			continue
		}

		if err = that.store.Delete(ctx, session); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", session.ID, err)
		}

		that.logger.Debug("session reclaimed", "session", session.ID, "player", playerID)
	}

	return nil
}

// Wait blocks until every scheduled sweep is done.
func (that *Keeper) Wait() {
	that.wg.Wait()
}
