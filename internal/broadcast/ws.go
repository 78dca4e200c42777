package broadcast

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single websocket write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may go without a pong before it is
	// considered dead; pings are sent at a fraction of this.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// IdentityFunc resolves the authenticated identity for an incoming request.
// Returns false when the request carries no identity.
type IdentityFunc func(r *http.Request) (uuid.UUID, bool)

// WSHandler bridges the hub to websocket connections: each accepted
// connection becomes a hub subscriber under the request's authenticated
// identity, and its write pump drains the subscriber channel.
type WSHandler struct {
	hub      *Hub
	identity IdentityFunc
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a WSHandler serving connections for the given hub.
func NewWSHandler(hub *Hub, identity IdentityFunc, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		identity: identity,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With("component", "ws_handler"),
	}
}

// ServeHTTP upgrades the request and pumps hub events to the connection
// until either side goes away.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sub := h.hub.Subscribe(userID)
	h.logger.Debug("websocket subscriber connected", "user_id", userID)

	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

// readPump discards inbound frames, keeping the connection's read side alive
// for control messages. Returning unsubscribes and closes the connection.
func (h *WSHandler) readPump(conn *websocket.Conn, sub *Subscriber) {
	defer func() {
		h.hub.Unsubscribe(sub)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error",
					"error", err,
					"user_id", sub.UserID())
			}
			return
		}
	}
}

// writePump forwards hub envelopes to the connection and keeps it alive with
// pings.
func (h *WSHandler) writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case env, ok := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(env); err != nil {
				h.logger.Debug("websocket write error",
					"error", err,
					"user_id", sub.UserID())
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
