package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/overlay"
)

// clientMessage is the only inbound frame the hub understands.
type clientMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// WSHandlers holds dependencies for the overlay WebSocket endpoint.
type WSHandlers struct {
	hub     *overlay.Hub
	metrics *middleware.Metrics

	upgrader websocket.Upgrader
}

// NewWSHandlers creates a new WSHandlers instance. metrics may be nil.
// OBS browser sources send no Origin header worth checking, so the upgrader
// accepts any origin.
func NewWSHandlers(hub *overlay.Hub, metrics *middleware.Metrics) *WSHandlers {
	return &WSHandlers{
		hub:     hub,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws. The connection is registered with the hub and kept
// open until the client disconnects; the only inbound message handled is a
// room join.
func (h *WSHandlers) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	h.hub.Register(conn)
	h.updateConnectionGauge()
	defer func() {
		h.hub.Unregister(conn)
		h.updateConnectionGauge()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "join" && msg.Room != "" {
			h.hub.JoinRoom(msg.Room, conn)
		}
	}
}

func (h *WSHandlers) updateConnectionGauge() {
	if h.metrics != nil {
		h.metrics.SetWebsocketConnections(h.hub.ConnectionCount())
	}
}
