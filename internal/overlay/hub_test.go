package overlay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialPair spins up a server that registers every upgraded connection in
// the hub and returns a connected client.
func dialPair(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Register(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	// Wait for the server side to land in the hub.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return client
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub()
	client := dialPair(t, hub)

	hub.BroadcastAll(EventTemplateGenerated, map[string]any{"id": 1})

	msg := readMessage(t, client)
	if msg.Event != EventTemplateGenerated {
		t.Errorf("event = %q, want %q", msg.Event, EventTemplateGenerated)
	}
}

func TestHub_RoomIsolation(t *testing.T) {
	hub := NewHub()
	overlayClient := dialPair(t, hub)

	// The server-side conn is the only one registered; join it to the room.
	hub.mu.RLock()
	var serverConn *websocket.Conn
	for conn := range hub.connections {
		serverConn = conn
	}
	hub.mu.RUnlock()
	hub.JoinRoom(RoomOverlay, serverConn)

	if hub.RoomCount(RoomOverlay) != 1 {
		t.Fatalf("RoomCount = %d, want 1", hub.RoomCount(RoomOverlay))
	}

	hub.BroadcastRoom(RoomOverlay, EventImageUpdate, map[string]any{"url": "/uploads/a.png"})
	msg := readMessage(t, overlayClient)
	if msg.Event != EventImageUpdate {
		t.Errorf("event = %q, want %q", msg.Event, EventImageUpdate)
	}

	// A broadcast to an empty room reaches nobody and does not panic.
	hub.BroadcastRoom("elsewhere", EventCaptionUpdate, nil)

	overlayClient.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := overlayClient.ReadMessage(); err == nil {
		t.Error("received a message from a room this client never joined")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	dialPair(t, hub)

	hub.mu.RLock()
	var serverConn *websocket.Conn
	for conn := range hub.connections {
		serverConn = conn
	}
	hub.mu.RUnlock()

	hub.JoinRoom(RoomOverlay, serverConn)
	hub.Unregister(serverConn)

	if hub.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount = %d after unregister", hub.ConnectionCount())
	}
	if hub.RoomCount(RoomOverlay) != 0 {
		t.Errorf("RoomCount = %d after unregister", hub.RoomCount(RoomOverlay))
	}
}
