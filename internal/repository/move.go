package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

type MoveRepository interface {
	Append(ctx context.Context, move *entity.Move) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.Move, error)
}

type dbMove struct {
	client *redis.Client
}

func NewMoveRepository(client *redis.Client) MoveRepository {
	return &dbMove{
		client: client,
	}
}

func (that *dbMove) Append(ctx context.Context, move *entity.Move) error {
	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("failed to marshal move: %w", err)
	}

	if err = that.client.RPush(ctx, movesKey(move.SessionID), moveJSON).Err(); err != nil {
		return fmt.Errorf("failed to append move: %w", err)
	}

	return nil
}

// ListBySession returns every move of the session, in storage order.
func (that *dbMove) ListBySession(ctx context.Context, sessionID string) ([]entity.Move, error) {
	values, err := that.client.LRange(ctx, movesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}

	moves := make([]entity.Move, 0, len(values))
	for _, value := range values {
		var move entity.Move
		if err = json.Unmarshal([]byte(value), &move); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move: %w", err)
		}

		moves = append(moves, move)
	}

	return moves, nil
}
