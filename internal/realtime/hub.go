// Package realtime maintains the per-user rooms that dashboard events are
// pushed through. Delivery is best-effort: a dropped connection silently
// loses in-flight messages.
package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection. The actual network
// conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active user connections and broadcasts events to them.
// It is constructed once in main and injected into handlers.
type Hub struct {
	mu              sync.RWMutex
	userIDToClients map[uint]map[Client]struct{}
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{userIDToClients: make(map[uint]map[Client]struct{})}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userIDToClients[userID]; !ok {
		h.userIDToClients[userID] = make(map[Client]struct{})
	}
	h.userIDToClients[userID][client] = struct{}{}
}

// Unregister removes a client; if the user has no more clients, cleans up
// the room.
func (h *Hub) Unregister(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userIDToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userIDToClients, userID)
		}
	}
}

// Broadcast sends a message to all clients of a user.
func (h *Hub) Broadcast(userID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.userIDToClients[userID] {
		if ok := c.Send(message); !ok {
			// write failed; the ws handler cleans up on its side
		}
	}
}

// BroadcastEvent marshals a named dashboard event and sends it to the user's
// room. Marshal failures are swallowed; push is cosmetic.
func (h *Hub) BroadcastEvent(userID uint, eventType string, taskID uint) {
	payload, err := json.Marshal(map[string]any{
		"type":   eventType,
		"taskId": taskID,
		"userId": userID,
	})
	if err != nil {
		return
	}
	h.Broadcast(userID, payload)
}
