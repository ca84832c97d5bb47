package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

var errTileRequired = errors.New("tile is required")

type sessionManager interface {
	CreateSession(ctx context.Context, playerID, mode string) (*entity.Session, error)
	JoinSession(ctx context.Context, code, playerID string) (*entity.Session, error)
	SubmitMove(ctx context.Context, sessionID, playerID string, tile int) (*entity.MoveResult, error)
	Abandon(ctx context.Context, sessionID, playerID string) error
	GetState(ctx context.Context, sessionID, playerID string) (*entity.SessionView, error)
	ListSessions(ctx context.Context, playerID string) ([]entity.SessionSummary, error)
}

type playerService interface {
	CreateGuest(ctx context.Context, name string) (*entity.Player, error)
}

type authService interface {
	GenerateToken(playerID string) (string, error)
	ParseToken(token string) (string, error)
}

type Handlers struct {
	logger *slog.Logger

	sessions sessionManager
	players  playerService
	auth     authService
}

func NewHandlers(logger *slog.Logger, sessions sessionManager, players playerService, auth authService) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		players:  players,
		auth:     auth,
	}
}

// Register mounts the API on mux.
func (that *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ping", that.Ping)
	mux.HandleFunc("POST /api/players", that.CreatePlayer)

	mux.Handle("GET /api/sessions", that.authenticated(that.ListSessions))
	mux.Handle("POST /api/sessions", that.authenticated(that.CreateSession))
	mux.Handle("POST /api/sessions/join", that.authenticated(that.JoinSession))
	mux.Handle("GET /api/sessions/{id}", that.authenticated(that.GetSession))
	mux.Handle("POST /api/sessions/{id}/moves", that.authenticated(that.SubmitMove))
	mux.Handle("POST /api/sessions/{id}/abandon", that.authenticated(that.Abandon))
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

type createPlayerResponse struct {
	Player *entity.Player `json:"player"`
	Token  string         `json:"token"`
}

func (that *Handlers) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			that.writeBadRequest(w, err)
			return
		}
	}

	player, err := that.players.CreateGuest(r.Context(), req.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	token, err := that.auth.GenerateToken(player.ID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, createPlayerResponse{Player: player, Token: token})
}

type createSessionRequest struct {
	Mode string `json:"mode"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code,omitempty"`
	Status string `json:"status"`
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request, playerID string) {
	var req createSessionRequest
	if err := decode(r, &req); err != nil {
		that.writeBadRequest(w, err)
		return
	}

	session, err := that.sessions.CreateSession(r.Context(), playerID, req.Mode)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, sessionResponse{ID: session.ID, Code: session.Code, Status: session.Status})
}

type joinSessionRequest struct {
	Code string `json:"code"`
}

func (that *Handlers) JoinSession(w http.ResponseWriter, r *http.Request, playerID string) {
	var req joinSessionRequest
	if err := decode(r, &req); err != nil {
		that.writeBadRequest(w, err)
		return
	}

	session, err := that.sessions.JoinSession(r.Context(), req.Code, playerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{ID: session.ID, Status: session.Status})
}

func (that *Handlers) ListSessions(w http.ResponseWriter, r *http.Request, playerID string) {
	sessions, err := that.sessions.ListSessions(r.Context(), playerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessions)
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request, playerID string) {
	view, err := that.sessions.GetState(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

type submitMoveRequest struct {
	Tile *int `json:"tile"`
}

func (that *Handlers) SubmitMove(w http.ResponseWriter, r *http.Request, playerID string) {
	var req submitMoveRequest
	if err := decode(r, &req); err != nil {
		that.writeBadRequest(w, err)
		return
	}

	if req.Tile == nil {
		that.writeBadRequest(w, errTileRequired)
		return
	}

	result, err := that.sessions.SubmitMove(r.Context(), r.PathValue("id"), playerID, *req.Tile)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *Handlers) Abandon(w http.ResponseWriter, r *http.Request, playerID string) {
	if err := that.sessions.Abandon(r.Context(), r.PathValue("id"), playerID); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decode(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}
