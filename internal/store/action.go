package store

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

var (
	// ErrDuplicateID is returned when an added notification reuses an id already in the feed.
	ErrDuplicateID = errors.New("duplicate notification id")

	// ErrInvalidNotification is returned when an added notification fails validation.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrInvalidPatch is returned when an update carries an invalid field value.
	ErrInvalidPatch = errors.New("invalid notification update")

	// ErrMalformedAction is returned when an action cannot be applied at all.
	// The state is left unchanged.
	ErrMalformedAction = errors.New("malformed action")
)

// Action names, matching the wire names accepted at the dispatch boundary.
const (
	NameAdd         = "ADD_NOTIFICATION"
	NameMarkRead    = "MARK_AS_READ"
	NameUpdate      = "UPDATE_NOTIFICATION"
	NameMarkAllRead = "MARK_ALL_AS_READ"
	NameRemove      = "REMOVE_NOTIFICATION"
	NameClearAll    = "CLEAR_ALL"
)

// Action is a state transition. The set of actions is closed: every
// implementation lives in this package and supplies its own transition.
type Action interface {
	// Name returns the wire name of the action.
	Name() string
	apply(State) (State, error)
}

// Add prepends a notification to the feed. The notification is always stored unread.
type Add struct {
	Notification domain.Notification
}

// MarkRead marks one notification as read.
type MarkRead struct {
	ID string
}

// Update merges a patch into one notification.
type Update struct {
	ID    string
	Patch Patch
}

// MarkAllRead marks every notification as read.
type MarkAllRead struct{}

// Remove deletes one notification, keeping the order of the rest.
type Remove struct {
	ID string
}

// ClearAll empties the feed.
type ClearAll struct{}

// Patch holds the fields an Update may change. Nil fields are left untouched.
// Metadata entries are merged; an empty value deletes the key.
type Patch struct {
	Title    *string
	Body     *string
	Read     *bool
	Priority *domain.Priority
	Status   *domain.Status
	Metadata map[string]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil && p.Read == nil &&
		p.Priority == nil && p.Status == nil && len(p.Metadata) == 0
}

func (Add) Name() string         { return NameAdd }
func (MarkRead) Name() string    { return NameMarkRead }
func (Update) Name() string      { return NameUpdate }
func (MarkAllRead) Name() string { return NameMarkAllRead }
func (Remove) Name() string      { return NameRemove }
func (ClearAll) Name() string    { return NameClearAll }

func (a Add) apply(s State) (State, error) {
	n := a.Notification.Clone()
	if err := n.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if s.indexOf(n.ID) >= 0 {
		return s, fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
	}
	n.Read = false

	feed := make([]domain.Notification, 0, len(s.Notifications)+1)
	feed = append(feed, n)
	feed = append(feed, s.Notifications...)
	return State{Notifications: feed}, nil
}

func (a MarkRead) apply(s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 || s.Notifications[i].Read {
		return s, nil
	}
	feed := s.copyNotifications(0)
	feed[i].Read = true
	return State{Notifications: feed}, nil
}

func (a Update) apply(s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 || a.Patch.IsEmpty() {
		return s, nil
	}
	if a.Patch.Priority != nil && !a.Patch.Priority.IsValid() {
		return s, fmt.Errorf("%w: priority %q", ErrInvalidPatch, *a.Patch.Priority)
	}
	if a.Patch.Status != nil && !a.Patch.Status.IsValid() {
		return s, fmt.Errorf("%w: status %q", ErrInvalidPatch, *a.Patch.Status)
	}
	if a.Patch.Title != nil && strings.TrimSpace(*a.Patch.Title) == "" {
		return s, fmt.Errorf("%w: title cannot be empty", ErrInvalidPatch)
	}

	feed := s.copyNotifications(0)
	feed[i] = a.Patch.mergeInto(feed[i])
	return State{Notifications: feed}, nil
}

func (p Patch) mergeInto(n domain.Notification) domain.Notification {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.Read != nil {
		n.Read = *p.Read
	}
	if p.Priority != nil {
		n.Priority = *p.Priority
	}
	if p.Status != nil {
		n.Status = *p.Status
	}
	if len(p.Metadata) > 0 {
		merged := make(map[string]string, len(n.Metadata)+len(p.Metadata))
		maps.Copy(merged, n.Metadata)
		for k, v := range p.Metadata {
			if v == "" {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		n.Metadata = merged
	}
	return n
}

func (MarkAllRead) apply(s State) (State, error) {
	feed := s.copyNotifications(0)
	for i := range feed {
		feed[i].Read = true
	}
	return State{Notifications: feed}, nil
}

func (a Remove) apply(s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, nil
	}
	feed := make([]domain.Notification, 0, len(s.Notifications)-1)
	feed = append(feed, s.Notifications[:i]...)
	feed = append(feed, s.Notifications[i+1:]...)
	return State{Notifications: feed}, nil
}

func (ClearAll) apply(State) (State, error) {
	return Empty(), nil
}

// Reduce applies action to state and returns the next state.
//
// A nil action, or one that targets an unknown id, returns state unchanged.
// Add rejects invalid or duplicate notifications and Update rejects invalid
// field values; on error the returned state is the input state.
func Reduce(state State, action Action) (next State, err error) {
	if action == nil {
		return state, nil
	}
	defer func() {
		if r := recover(); r != nil {
			next, err = state, fmt.Errorf("%w: %T: %v", ErrMalformedAction, action, r)
		}
	}()
	next, err = action.apply(state)
	if err != nil {
		return state, err
	}
	next.UnreadCount = domain.CountUnread(next.Notifications)
	return next, nil
}
