package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCodeNotFound    = errors.New("session code not found")
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, session *entity.Session) error

	ClaimCode(ctx context.Context, code, sessionID string) (bool, error)
	GetIDByCode(ctx context.Context, code string) (string, error)

	ListByPlayer(ctx context.Context, playerID string) ([]*entity.Session, error)
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func codeKey(code string) string {
	return "session:code:" + strings.ToUpper(code)
}

func movesKey(sessionID string) string {
	return "session:" + sessionID + ":moves"
}

func playerSessionsKey(playerID string) string {
	return "player:" + playerID + ":sessions"
}

func (that *dbSession) Create(ctx context.Context, session *entity.Session) error {
	return that.save(ctx, session)
}

func (that *dbSession) Update(ctx context.Context, session *entity.Session) error {
	return that.save(ctx, session)
}

// save stores the session and refreshes its position in every real player's index.
func (that *dbSession) save(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), sessionJSON, 0)

		for _, playerID := range session.RealPlayers() {
			pipe.ZAdd(ctx, playerSessionsKey(playerID), redis.Z{
				Score:  float64(session.UpdatedAt.UnixMilli()),
				Member: session.ID,
			})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes the session with its moves, code claim and index entries.
func (that *dbSession) Delete(ctx context.Context, session *entity.Session) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(session.ID), movesKey(session.ID))

		if session.Code != "" {
			pipe.Del(ctx, codeKey(session.Code))
		}

		for _, playerID := range session.RealPlayers() {
			pipe.ZRem(ctx, playerSessionsKey(playerID), session.ID)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// ClaimCode atomically binds code to sessionID; false means the code is taken.
func (that *dbSession) ClaimCode(ctx context.Context, code, sessionID string) (bool, error) {
	claimed, err := that.client.SetNX(ctx, codeKey(code), sessionID, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim session code: %w", err)
	}

	return claimed, nil
}

func (that *dbSession) GetIDByCode(ctx context.Context, code string) (string, error) {
	id, err := that.client.Get(ctx, codeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get session by code: %w", err)
	}

	return id, nil
}

// ListByPlayer returns the player's sessions, most recently updated first.
func (that *dbSession) ListByPlayer(ctx context.Context, playerID string) ([]*entity.Session, error) {
	ids, err := that.client.ZRevRange(ctx, playerSessionsKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list player sessions: %w", err)
	}

	if len(ids) == 0 {
		return []*entity.Session{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player sessions: %w", err)
	}

	sessions := make([]*entity.Session, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// deleted after the index was read
			continue
		}

		var session entity.Session
		if err = json.Unmarshal([]byte(raw), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}

		sessions = append(sessions, &session)
	}

	return sessions, nil
}
