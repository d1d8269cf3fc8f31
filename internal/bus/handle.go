package bus

import (
	"context"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// Handle is what UI-facing code gets: read the feed, dispatch actions, and
// subscribe to changes. It cannot replace the state directly.
type Handle struct {
	bus *Bus
}

// State returns a snapshot of the feed.
func (h *Handle) State() store.State {
	return h.bus.State()
}

// UnreadCount returns the badge count.
func (h *Handle) UnreadCount() int {
	return h.bus.store.UnreadCount()
}

// List returns notifications matching filter, newest first.
func (h *Handle) List(filter domain.Filter) []domain.Notification {
	return h.bus.store.List(filter)
}

// Dispatch forwards to the bus.
func (h *Handle) Dispatch(ctx context.Context, action store.Action) error {
	return h.bus.Dispatch(ctx, action)
}

// Subscribe forwards to the bus.
func (h *Handle) Subscribe(fn Observer) func() {
	return h.bus.Subscribe(fn)
}
