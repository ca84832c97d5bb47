package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository/memory"
	"github.com/rocketscienceinc/blackwhite-backend/internal/service"
	"github.com/rocketscienceinc/blackwhite-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := memory.New()

	sessions := memory.NewSessionRepository(storage)
	players := memory.NewPlayerRepository(storage)

	manager := usecase.NewSessionManager(
		logger,
		sessions,
		memory.NewMoveRepository(storage),
		memory.NewSessionLocker(time.Second),
		service.NewOpponentService(players, nil),
		service.NewAllocator(logger, sessions, 10),
		time.Minute,
	)

	mux := http.NewServeMux()
	NewHandlers(logger, manager, service.NewPlayerService(players), service.NewAuthService("secret")).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func register(t *testing.T, srv *httptest.Server, name string) (string, string) {
	t.Helper()

	status, data := call(t, srv, http.MethodPost, "/api/players", "", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, status)

	var resp createPlayerResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.NotEmpty(t, resp.Token)

	return resp.Player.ID, resp.Token
}

func TestHandlers_Ping(t *testing.T) {
	srv := newTestAPI(t)

	status, data := call(t, srv, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(data))
}

func TestHandlers_Unauthorized(t *testing.T) {
	srv := newTestAPI(t)

	status, _ := call(t, srv, http.MethodGet, "/api/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, srv, http.MethodGet, "/api/sessions", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHandlers_DirectSession(t *testing.T) {
	srv := newTestAPI(t)

	aliceID, alice := register(t, srv, "alice")
	bobID, bob := register(t, srv, "bob")
	_, carol := register(t, srv, "carol")

	// Given: alice opens a direct session
	status, data := call(t, srv, http.MethodPost, "/api/sessions", alice, map[string]string{"mode": entity.ModeDirect})
	require.Equal(t, http.StatusCreated, status)

	var created sessionResponse
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, entity.StatusWaiting, created.Status)

	// When: alice tries to join her own session
	status, _ = call(t, srv, http.MethodPost, "/api/sessions/join", alice, map[string]string{"code": created.Code})

	// Then: it is a conflict
	assert.Equal(t, http.StatusConflict, status)

	// When: bob joins
	status, data = call(t, srv, http.MethodPost, "/api/sessions/join", bob, map[string]string{"code": created.Code})
	require.Equal(t, http.StatusOK, status)

	var joined sessionResponse
	require.NoError(t, json.Unmarshal(data, &joined))
	assert.Equal(t, entity.StatusActive, joined.Status)
	assert.Equal(t, created.ID, joined.ID)

	movesPath := "/api/sessions/" + created.ID + "/moves"

	// Then: bob cannot move first
	status, _ = call(t, srv, http.MethodPost, movesPath, bob, map[string]int{"tile": 5})
	assert.Equal(t, http.StatusBadRequest, status)

	// And: a move needs a tile
	status, _ = call(t, srv, http.MethodPost, movesPath, alice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	// When: alice plays 4
	status, _ = call(t, srv, http.MethodPost, movesPath, alice, map[string]int{"tile": 4})
	require.Equal(t, http.StatusOK, status)

	// Then: bob sees only the color of her tile
	status, data = call(t, srv, http.MethodGet, "/api/sessions/"+created.ID, bob, nil)
	require.Equal(t, http.StatusOK, status)

	var view entity.SessionView
	require.NoError(t, json.Unmarshal(data, &view))
	require.NotNil(t, view.CurrentRound.OpponentMove)
	assert.Nil(t, view.CurrentRound.OpponentMove.Tile)
	assert.Equal(t, "black", view.CurrentRound.OpponentMove.Color)
	assert.Equal(t, aliceID, view.OpponentID)
	assert.True(t, view.IsMyTurn)

	// When: bob answers with 5
	status, data = call(t, srv, http.MethodPost, movesPath, bob, map[string]int{"tile": 5})
	require.Equal(t, http.StatusOK, status)

	var result entity.MoveResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.RoundComplete)
	assert.Equal(t, bobID, result.RoundWinner)
	assert.Equal(t, 2, result.State.Round)

	// And: strangers and unknown sessions are refused
	status, _ = call(t, srv, http.MethodGet, "/api/sessions/"+created.ID, carol, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, srv, http.MethodGet, "/api/sessions/missing", carol, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// When: alice abandons
	status, _ = call(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/abandon", alice, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/abandon", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Then: bob's listing shows his win
	status, data = call(t, srv, http.MethodGet, "/api/sessions", bob, nil)
	require.Equal(t, http.StatusOK, status)

	var summaries []entity.SessionSummary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, entity.StatusForfeited, summaries[0].Status)
	assert.Equal(t, bobID, summaries[0].Winner)
}

func TestHandlers_SimulatedSession(t *testing.T) {
	srv := newTestAPI(t)

	aliceID, alice := register(t, srv, "alice")
	_, bob := register(t, srv, "bob")

	// Given: alice plays against the computer
	status, data := call(t, srv, http.MethodPost, "/api/sessions", alice, map[string]string{"mode": entity.ModeSimulated})
	require.Equal(t, http.StatusCreated, status)

	var created sessionResponse
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, entity.StatusActive, created.Status)

	status, _ = call(t, srv, http.MethodPost, "/api/sessions/join", bob, map[string]string{"code": created.Code})
	assert.Equal(t, http.StatusConflict, status)

	// When: she opens with 8
	status, data = call(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/moves", alice, map[string]int{"tile": 8})
	require.Equal(t, http.StatusOK, status)

	var result entity.MoveResult
	require.NoError(t, json.Unmarshal(data, &result))
	// Then: the computer answered in the same request and alice leads round 2
	assert.True(t, result.RoundComplete)
	assert.Contains(t, []string{aliceID, entity.OutcomeTie}, result.RoundWinner)
	assert.Equal(t, 2, result.State.Round)
	assert.True(t, result.State.IsMyTurn)
	assert.Equal(t, 8, result.State.OpponentTilesLeft)
}

func TestHandlers_InvalidMode(t *testing.T) {
	srv := newTestAPI(t)
	_, alice := register(t, srv, "alice")

	status, _ := call(t, srv, http.MethodPost, "/api/sessions", alice, map[string]string{"mode": "ranked"})

	assert.Equal(t, http.StatusBadRequest, status)
}
