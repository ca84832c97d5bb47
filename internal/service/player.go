package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/pkg"
)

type PlayerService interface {
	// CreateGuest registers a new real participant.
	CreateGuest(ctx context.Context, name string) (*entity.Player, error)
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerService struct {
	playerRepo playerRepo
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

func (that *playerService) CreateGuest(ctx context.Context, name string) (*entity.Player, error) {
	player := &entity.Player{
		ID:        pkg.GeneratePlayerID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if player.Name == "" {
		player.Name = "Guest_" + player.ID[:8]
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	return player, nil
}

func (that *playerService) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	existingPlayer, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get player by id: %w", err)
	}

	return existingPlayer, nil
}
