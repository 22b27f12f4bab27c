// Package overlay provides WebSocket broadcasting for the OBS overlay and
// the admin console. Delivery is fire-and-forget: no acknowledgment, no
// replay. A reconnecting overlay catches up via the active-image endpoint.
package overlay

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Room joined by OBS browser sources.
const RoomOverlay = "overlay"

// Event names pushed over the socket.
const (
	EventImageUpdate       = "image-update"
	EventCaptionUpdate     = "caption-update"
	EventImageUploaded     = "image-uploaded"
	EventTemplateGenerated = "template-generated"
)

// Message is the wire envelope for every pushed event.
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub tracks WebSocket connections and their room memberships.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]bool
	rooms       map[string]map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]bool),
		rooms:       make(map[string]map[*websocket.Conn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn] = true
}

// JoinRoom adds a registered connection to the named room.
func (h *Hub) JoinRoom(room string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*websocket.Conn]bool)
	}
	h.rooms[room][conn] = true
}

// Unregister removes a connection from the hub and every room.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.connections, conn)
	for room, conns := range h.rooms {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
}

// BroadcastAll sends an event to every connection.
func (h *Hub) BroadcastAll(event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.send(h.connections, event, payload)
}

// BroadcastRoom sends an event to the members of one room only.
func (h *Hub) BroadcastRoom(room, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[room]
	if !ok || len(conns) == 0 {
		return
	}
	h.send(conns, event, payload)
}

func (h *Hub) send(conns map[*websocket.Conn]bool, event string, payload any) {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		slog.Error("failed to marshal overlay event", "event", event, "error", err)
		return
	}
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("failed to push overlay event",
				"event", event,
				"error", err,
			)
			// Connection is reaped when the client disconnects.
		}
	}
}

// ConnectionCount returns the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.connections)
}

// RoomCount returns the number of connections in the named room.
func (h *Hub) RoomCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
