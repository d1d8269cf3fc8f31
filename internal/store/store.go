package store

import (
	"sync"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// Store owns the current feed state. It is safe for concurrent use; readers
// always receive deep copies so nothing outside the store can mutate the feed.
type Store struct {
	mu    sync.RWMutex
	state State
}

// New creates an empty store.
func New() *Store {
	return &Store{state: Empty()}
}

// Dispatch reduces action against the current state and stores the result.
// It returns a snapshot of the resulting state. On error the state is unchanged.
func (s *Store) Dispatch(action Action) (State, error) {
	_, next, err := s.Apply(action)
	return next, err
}

// Apply is Dispatch that also returns a snapshot of the state the action was
// applied to. On error prev and next are equal.
func (s *Store) Apply(action Action) (prev, next State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reduced, err := Reduce(s.state, action)
	if err != nil {
		snap := s.state.Clone()
		return snap, snap, err
	}
	prev = s.state.Clone()
	s.state = reduced
	return prev, reduced.Clone(), nil
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UnreadCount
}

// Get returns a copy of the notification with id.
func (s *Store) Get(id string) (domain.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.state.Find(id)
	if !ok {
		return domain.Notification{}, false
	}
	return n.Clone(), true
}

// List returns copies of the notifications matching filter, newest first.
func (s *Store) List(filter domain.Filter) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := domain.FilterNotifications(s.state.Notifications, filter)
	out := make([]domain.Notification, len(matched))
	for i := range matched {
		out[i] = matched[i].Clone()
	}
	return out
}
