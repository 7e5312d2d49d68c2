package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 4 * 1024
)

// WebSocketClients returns the number of connected WebSocket clients.
func (s *Server) WebSocketClients() int {
	return int(s.wsClients.Load())
}

// handleWebSocket streams state changes to a WebSocket client.
//
// The handler goroutine is the connection's only writer. A separate reader
// goroutine consumes control frames and detects disconnects. Clients are not
// expected to send anything.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	clientID := uuid.NewString()
	s.wsClients.Add(1)
	defer s.wsClients.Add(-1)
	s.logger.Debug("websocket client connected", "client_id", clientID, "remote", r.RemoteAddr)

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("websocket read error", "client_id", clientID, "error", err)
				}
				return
			}
		}
	}()

	writeJSON := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v)
	}

	if err := writeJSON(s.store.Get()); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case state, ok := <-ch:
			if !ok {
				return
			}
			if err := writeJSON(state); err != nil {
				s.logger.Debug("websocket write error", "client_id", clientID, "error", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			s.logger.Debug("websocket client disconnected", "client_id", clientID)
			return

		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}
