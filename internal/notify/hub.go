// Package notify implements the per-session transient notification channel.
// It is a single slot, not a stacking queue: pushing while one is visible
// replaces it.
package notify

import (
	"sync"
	"time"

	"nucleav/internal/model"
)

// DefaultDismissAfter is how long a notification stays visible before
// auto-dismissing.
const DefaultDismissAfter = 5 * time.Second

type slot struct {
	current model.Notification
	timer   *time.Timer
}

// Hub tracks one notification slot per session. Any component may push;
// exactly one consumer (the page tree) reads the slot.
type Hub struct {
	mu           sync.Mutex
	slots        map[string]*slot
	dismissAfter time.Duration
}

// NewHub creates a hub with the default auto-dismiss duration.
func NewHub() *Hub {
	return &Hub{
		slots:        make(map[string]*slot),
		dismissAfter: DefaultDismissAfter,
	}
}

// NewHubWithTimeout creates a hub with a custom auto-dismiss duration.
// A non-positive duration disables auto-dismiss.
func NewHubWithTimeout(d time.Duration) *Hub {
	h := NewHub()
	h.dismissAfter = d
	return h
}

// Push enqueues a notification for the session, replacing any visible one
// and restarting the auto-dismiss timer.
func (h *Hub) Push(sessionID, level, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sl, ok := h.slots[sessionID]
	if !ok {
		sl = &slot{}
		h.slots[sessionID] = sl
	}
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
	sl.current = model.Notification{Open: true, Message: message, Type: level}

	if h.dismissAfter > 0 {
		sl.timer = time.AfterFunc(h.dismissAfter, func() {
			h.Dismiss(sessionID)
		})
	}
}

// Success, Error, Info and Warning are convenience wrappers around Push.
func (h *Hub) Success(sessionID, message string) { h.Push(sessionID, model.NotifySuccess, message) }
func (h *Hub) Error(sessionID, message string)   { h.Push(sessionID, model.NotifyError, message) }
func (h *Hub) Info(sessionID, message string)    { h.Push(sessionID, model.NotifyInfo, message) }
func (h *Hub) Warning(sessionID, message string) { h.Push(sessionID, model.NotifyWarning, message) }

// Current returns the visible notification for the session. A closed slot
// reads as {open: false}.
func (h *Hub) Current(sessionID string) model.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sl, ok := h.slots[sessionID]; ok {
		return sl.current
	}
	return model.Notification{}
}

// Dismiss closes the session's notification slot.
func (h *Hub) Dismiss(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sl, ok := h.slots[sessionID]
	if !ok {
		return
	}
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
	sl.current = model.Notification{}
}

// Drop removes all state for the session, used on logout.
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sl, ok := h.slots[sessionID]; ok && sl.timer != nil {
		sl.timer.Stop()
	}
	delete(h.slots, sessionID)
}
