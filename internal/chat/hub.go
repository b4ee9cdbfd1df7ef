// File: internal/chat/hub.go
package chat

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub fans out new messages to live subscribers of a room. Delivery order
// within a room matches publish order. A subscriber that stops draining its
// channel has messages dropped rather than blocking the publisher.
type Hub struct {
	logger  *zap.Logger
	bufSize int

	mu     sync.RWMutex
	nextID int
	rooms  map[uuid.UUID]map[int]chan MessageView
}

// NewHub creates a message hub. bufSize is the per-subscriber channel
// buffer; zero falls back to a small default.
func NewHub(bufSize int, logger *zap.Logger) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		logger:  logger,
		bufSize: bufSize,
		rooms:   make(map[uuid.UUID]map[int]chan MessageView),
	}
}

// Subscribe registers a live listener on a room. The returned cancel func
// closes the channel and must be called exactly once.
func (h *Hub) Subscribe(roomID uuid.UUID) (<-chan MessageView, func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan MessageView, h.bufSize)
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[int]chan MessageView)
		h.rooms[roomID] = subs
	}
	subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.rooms[roomID]; ok {
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.rooms, roomID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a message to every live subscriber of its room.
func (h *Hub) Publish(msg MessageView) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.rooms[msg.RoomID] {
		select {
		case ch <- msg:
		default:
			h.logger.Warn("Dropping chat message for slow subscriber",
				zap.String("roomID", msg.RoomID.String()), zap.Int("subscriber", id))
		}
	}
}

// SubscriberCount reports live subscribers on a room.
func (h *Hub) SubscriberCount(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
