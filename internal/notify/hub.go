package notify

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks live websocket connections per user so freshly persisted
// notifications can be pushed without polling.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uint][]*websocket.Conn)}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}

// Push writes payload to every live connection of the user. Write errors
// are logged and otherwise ignored; the durable record is the DB row.
func (h *Hub) Push(userID uint, payload []byte) {
	h.mu.RLock()
	conns := append([]*websocket.Conn(nil), h.conns[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("notify: push to user %d failed: %v", userID, err)
		}
	}
}
