package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	// GetOrCreate returns the player registered under alias, storing candidate on first use.
	GetOrCreate(ctx context.Context, alias string, candidate *entity.Player) (*entity.Player, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func playerKey(id string) string {
	return "player:" + id
}

func playerAliasKey(alias string) string {
	return "player:alias:" + alias
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	err = that.client.Set(ctx, playerKey(player.ID), playerJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	response, err := that.client.Get(ctx, playerKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

func (that *dbPlayer) GetOrCreate(ctx context.Context, alias string, candidate *entity.Player) (*entity.Player, error) {
	claimed, err := that.client.SetNX(ctx, playerAliasKey(alias), candidate.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim player alias: %w", err)
	}

	if claimed {
		if err = that.CreateOrUpdate(ctx, candidate); err != nil {
			return nil, err
		}

		return candidate, nil
	}

	id, err := that.client.Get(ctx, playerAliasKey(alias)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player alias: %w", err)
	}

	player, err := that.GetByID(ctx, id)
	if errors.Is(err, ErrPlayerNotFound) {
		// the claimant has not stored the record yet
		return &entity.Player{ID: id, Name: candidate.Name, Simulated: candidate.Simulated}, nil
	}

	if err != nil {
		return nil, err
	}

	return player, nil
}
