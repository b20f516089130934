// Package realtime pushes match and chat events to connected websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/domain/model"
)

const (
	EventMatchCreated = "match_created"
	EventChatMessage  = "chat_message"

	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type MatchCreated struct {
	MatchID string                `json:"match_id"`
	UserID  string                `json:"user_id"`
	Partner model.ProfileSnapshot `json:"partner"`
}

// Client is one websocket connection of a user. Writes are serialized since
// gorilla connections allow a single concurrent writer.
type Client struct {
	UserID string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *Client) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, payload)
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*Client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends ev to every connection of userID. Connections that fail to
// accept the write are dropped.
func (h *Hub) Publish(userID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal realtime event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("drop realtime client", zap.String("user_id", userID), zap.Error(err))
			h.Unregister(c)
		}
	}
}

// NotifyMatch tells both participants about a new match, each with the
// other's snapshot.
func (h *Hub) NotifyMatch(_ context.Context, m model.Match) {
	for _, userID := range m.Participants() {
		partner := m.OtherUser(userID)
		h.Publish(userID, Event{
			Type: EventMatchCreated,
			Data: MatchCreated{
				MatchID: m.ID,
				UserID:  partner,
				Partner: m.Snapshots[partner],
			},
		})
	}
}

func (h *Hub) BroadcastMessage(_ context.Context, recipients []string, msg model.ChatMessage) {
	for _, userID := range recipients {
		h.Publish(userID, Event{Type: EventChatMessage, Data: msg})
	}
}

// Serve upgrades the request and keeps the connection registered for userID
// until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &Client{UserID: userID, conn: conn}
	h.Register(c)

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			h.Unregister(c)
			return
		}
	}
}
