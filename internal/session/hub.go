package session

import (
	"sync"

	"github.com/PrasannaVit-21/chummaOrder/internal/realtime"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/google/uuid"
)

// Hub owns the live sessions, one per user, and routes change events to
// them. It implements the realtime sink.
type Hub struct {
	loaders Loaders
	logg    *logger.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

// NewHub builds an empty hub.
func NewHub(loaders Loaders, logg *logger.Logger) *Hub {
	return &Hub{
		loaders:  loaders,
		logg:     logg,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Get returns the user's session, creating and starting one if needed.
func (h *Hub) Get(userID uuid.UUID) *Session {
	h.mu.RLock()
	existing := h.sessions[userID]
	h.mu.RUnlock()
	if existing != nil {
		return existing
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing := h.sessions[userID]; existing != nil {
		return existing
	}
	if h.closed {
		return nil
	}
	created := NewSession(userID, h.loaders, h.logg)
	h.sessions[userID] = created
	return created
}

// Peek returns the user's session without creating one.
func (h *Hub) Peek(userID uuid.UUID) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[userID]
}

// Drop closes and removes the user's session.
func (h *Hub) Drop(userID uuid.UUID) {
	h.mu.Lock()
	existing := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()
	if existing != nil {
		existing.Close()
	}
}

// Broadcast delivers a change event to every live session.
func (h *Hub) Broadcast(event *realtime.ChangeEvent) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		targets = append(targets, sess)
	}
	h.mu.RUnlock()
	for _, sess := range targets {
		sess.Enqueue(event)
	}
}

// DeliverTo delivers a change event to one user's session if it is live.
func (h *Hub) DeliverTo(userID uuid.UUID, event *realtime.ChangeEvent) {
	if sess := h.Peek(userID); sess != nil {
		sess.Enqueue(event)
	}
}

// Close stops every session and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	targets := make([]*Session, 0, len(h.sessions))
	for id, sess := range h.sessions {
		targets = append(targets, sess)
		delete(h.sessions, id)
	}
	h.mu.Unlock()
	for _, sess := range targets {
		sess.Close()
	}
}
