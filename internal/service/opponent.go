package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/blackwhite"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/pkg"
)

const (
	SentinelAlias = "simulated-opponent"
	SentinelName  = "Computer"
)

type sentinelRepo interface {
	GetOrCreate(ctx context.Context, alias string, candidate *entity.Player) (*entity.Player, error)
}

// OpponentService plays the simulated side of SIMULATED sessions.
type OpponentService struct {
	repo sentinelRepo
	pick blackwhite.Picker

	mu       sync.Mutex
	sentinel *entity.Player
}

func NewOpponentService(repo sentinelRepo, pick blackwhite.Picker) *OpponentService {
	return &OpponentService{
		repo: repo,
		pick: pick,
	}
}

// Sentinel returns the single simulated participant, creating it on first use.
func (that *OpponentService) Sentinel(ctx context.Context) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.sentinel != nil {
		return that.sentinel, nil
	}

	candidate := &entity.Player{
		ID:        pkg.GeneratePlayerID(),
		Name:      SentinelName,
		Simulated: true,
		CreatedAt: time.Now().UTC(),
	}

	sentinel, err := that.repo.GetOrCreate(ctx, SentinelAlias, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve simulated opponent: %w", err)
	}

	that.sentinel = sentinel

	return sentinel, nil
}

// NextMove picks the simulated tile from the remaining ones.
func (that *OpponentService) NextMove(remaining []int) (int, error) {
	return blackwhite.NextMove(remaining, that.pick)
}
