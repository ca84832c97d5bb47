package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

const (
	actionSessionUpdate = "session:update"
	sendBufferSize      = 16
)

// Message is the envelope of every frame pushed to a subscriber.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type tokenParser interface {
	ParseToken(token string) (string, error)
}

type stateReader interface {
	GetState(ctx context.Context, sessionID, playerID string) (*entity.SessionView, error)
}

// Hub pushes session updates to the participants watching a session.
type Hub struct {
	logger   *slog.Logger
	auth     tokenParser
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger, auth tokenParser) *Hub {
	return &Hub{
		logger: logger.With("component", "websocket"),
		auth:   auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subscribers: make(map[string]map[*client]struct{}),
	}
}

// Handler subscribes a participant: GET /ws?session=<id>&token=<jwt>.
// sessions confirms participation before the upgrade.
func (that *Hub) Handler(sessions stateReader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		that.serve(w, r, sessions)
	})
}

func (that *Hub) serve(w http.ResponseWriter, r *http.Request, sessions stateReader) {
	log := that.logger.With("method", "serve")

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	playerID, err := that.auth.ParseToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, apperror.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	view, err := sessions.GetState(r.Context(), sessionID, playerID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, apperror.ErrNotAParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case err != nil:
		log.Error("failed to read session", "session", sessionID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(that.logger, conn, sessionID, playerID)
	that.subscribe(c)

	log.Info("subscriber connected", "session", sessionID, "player", playerID)

	c.enqueue(that.encode(entity.SessionUpdate{
		SessionID: view.ID,
		Status:    view.Status,
		Round:     view.Round,
		Turn:      view.Turn,
		Winner:    view.Winner,
	}))

	go c.writeLoop()
	c.readLoop()

	that.unsubscribe(c)
	log.Info("subscriber disconnected", "session", sessionID, "player", playerID)
}

// Notify fans update out to the session's subscribers without blocking.
func (that *Hub) Notify(_ context.Context, update entity.SessionUpdate) {
	message := that.encode(update)
	if message == nil {
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.subscribers[update.SessionID] {
		if !c.enqueue(message) {
			that.logger.Warn("subscriber is too slow, update dropped", "session", update.SessionID, "player", c.playerID)
		}
	}
}

// Subscribers returns how many connections watch sessionID.
func (that *Hub) Subscribers(sessionID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.subscribers[sessionID])
}

func (that *Hub) subscribe(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.subscribers[c.sessionID] == nil {
		that.subscribers[c.sessionID] = make(map[*client]struct{})
	}

	that.subscribers[c.sessionID][c] = struct{}{}
}

func (that *Hub) unsubscribe(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.subscribers[c.sessionID], c)
	if len(that.subscribers[c.sessionID]) == 0 {
		delete(that.subscribers, c.sessionID)
	}

	c.close()
}

func (that *Hub) encode(update entity.SessionUpdate) []byte {
	payload, err := json.Marshal(update)
	if err != nil {
		that.logger.Error("failed to marshal update", "error", err)
		return nil
	}

	message, err := json.Marshal(Message{Action: actionSessionUpdate, Payload: payload})
	if err != nil {
		that.logger.Error("failed to marshal message", "error", err)
		return nil
	}

	return message
}
