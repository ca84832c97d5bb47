package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type client struct {
	logger    *slog.Logger
	conn      *websocket.Conn
	sessionID string
	playerID  string

	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(logger *slog.Logger, conn *websocket.Conn, sessionID, playerID string) *client {
	return &client{
		logger:    logger.With("session", sessionID, "player", playerID),
		conn:      conn,
		sessionID: sessionID,
		playerID:  playerID,
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
	}
}

// enqueue reports false when the buffer is full or the client is gone.
func (that *client) enqueue(message []byte) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.send <- message:
		return true
	default:
		return false
	}
}

// readLoop only drains control frames; subscribers never send commands.
func (that *client) readLoop() {
	that.conn.SetReadLimit(512)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := that.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("unexpected close", "error", err)
			}

			return
		}
	}
}

func (that *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-that.done:
			_ = that.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			_ = that.conn.Close()
			return
		case message := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				that.logger.Error("failed to write message", "error", err)
				_ = that.conn.Close()
				return
			}
		case <-ticker.C:
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = that.conn.Close()
				return
			}
		}
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}
