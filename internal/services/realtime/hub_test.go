package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/slayerintech/Lovify/internal/domain/model"
)

func dial(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connections(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client %s was not registered", userID)
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var ev map[string]any
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return ev
}

func TestNotifyMatchReachesBothParticipants(t *testing.T) {
	hub := NewHub(nil)
	alice := dial(t, hub, "alice")
	bob := dial(t, hub, "bob")

	hub.NotifyMatch(context.Background(), model.Match{
		ID:    "m1",
		UserA: "alice",
		UserB: "bob",
		Snapshots: map[string]model.ProfileSnapshot{
			"alice": {Name: "Alice"},
			"bob":   {Name: "Bob"},
		},
	})

	for _, tc := range []struct {
		conn    *websocket.Conn
		partner string
		name    string
	}{
		{conn: alice, partner: "bob", name: "Bob"},
		{conn: bob, partner: "alice", name: "Alice"},
	} {
		ev := readEvent(t, tc.conn)
		if ev["type"] != EventMatchCreated {
			t.Fatalf("unexpected event type: got %v want %s", ev["type"], EventMatchCreated)
		}
		data, _ := ev["data"].(map[string]any)
		partner, _ := data["partner"].(map[string]any)
		if data["match_id"] != "m1" || data["user_id"] != tc.partner || partner["name"] != tc.name {
			t.Fatalf("unexpected event payload: %v", data)
		}
	}
}

func TestUnregisterOnClientClose(t *testing.T) {
	hub := NewHub(nil)
	conn := dial(t, hub, "carol")
	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connections("carol") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client was not unregistered after close")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish("carol", Event{Type: EventChatMessage})
}

func TestBroadcastMessage(t *testing.T) {
	hub := NewHub(nil)
	bob := dial(t, hub, "bob")

	hub.BroadcastMessage(context.Background(), []string{"alice", "bob"}, model.ChatMessage{ID: "x", MatchID: "m1", Text: "hi"})

	ev := readEvent(t, bob)
	data, _ := ev["data"].(map[string]any)
	if ev["type"] != EventChatMessage || data["text"] != "hi" {
		t.Fatalf("unexpected event: %v", ev)
	}
}
