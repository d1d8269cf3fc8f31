// Package store holds the notification feed and the reducer that evolves it.
//
// State transitions are pure: Reduce never mutates the state it is given and
// always recomputes the unread count from the resulting feed, so
// UnreadCount == count(!Read) holds after every action.
package store

import (
	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// State is the content of the store. Notifications are ordered newest first.
type State struct {
	Notifications []domain.Notification
	UnreadCount   int
}

// Empty returns the initial state.
func Empty() State {
	return State{Notifications: []domain.Notification{}}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{
		Notifications: make([]domain.Notification, len(s.Notifications)),
		UnreadCount:   s.UnreadCount,
	}
	for i := range s.Notifications {
		out.Notifications[i] = s.Notifications[i].Clone()
	}
	return out
}

// Len returns the number of notifications in the feed.
func (s State) Len() int {
	return len(s.Notifications)
}

// IDs returns notification ids in feed order.
func (s State) IDs() []string {
	ids := make([]string, len(s.Notifications))
	for i := range s.Notifications {
		ids[i] = s.Notifications[i].ID
	}
	return ids
}

// Find returns the notification with id and whether it exists.
func (s State) Find(id string) (domain.Notification, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Notifications[i], true
	}
	return domain.Notification{}, false
}

// Consistent reports whether the tracked unread count matches the feed.
func (s State) Consistent() bool {
	return s.UnreadCount == domain.CountUnread(s.Notifications)
}

func (s State) indexOf(id string) int {
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			return i
		}
	}
	return -1
}

// copyNotifications returns a copy of the feed slice that can be modified
// without touching s.
func (s State) copyNotifications(extra int) []domain.Notification {
	out := make([]domain.Notification, len(s.Notifications), len(s.Notifications)+extra)
	copy(out, s.Notifications)
	return out
}
