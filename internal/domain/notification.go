// Package domain provides the domain layer for practice notifications.
// It contains value objects and the rules that keep them valid.
package domain

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Metadata keys used to correlate an alert with the entity that triggered it.
const (
	MetaEntityID  = "entityId"
	MetaFieldID   = "fieldId"
	MetaFieldType = "fieldType"
)

// Notification represents a single feed entry.
type Notification struct {
	ID        string
	Kind      Kind
	Title     string
	Body      string
	CreatedAt time.Time
	Read      bool
	Priority  Priority
	Status    Status
	Metadata  map[string]string
}

// Kind is the category of a notification.
type Kind string

const (
	KindReview  Kind = "review"
	KindTask    Kind = "task"
	KindMessage Kind = "message"
	KindAlert   Kind = "alert"
)

// IsValid checks if the kind is one of the known categories.
func (k Kind) IsValid() bool {
	switch k {
	case KindReview, KindTask, KindMessage, KindAlert:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Priority is the urgency of a notification.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid checks if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Status is the lifecycle state of an actionable notification.
// The zero value means the notification carries no request.
type Status string

const (
	StatusNone             Status = ""
	StatusAccepted         Status = "accepted"
	StatusPendingApproval  Status = "pending_approval"
	StatusDeclinedRejected Status = "declined_rejected"
)

// IsValid checks if the status is valid. An empty status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusNone, StatusAccepted, StatusPendingApproval, StatusDeclinedRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return fmt.Errorf("notification id cannot be empty")
	}
	if !n.Kind.IsValid() {
		return fmt.Errorf("invalid notification kind: %s", n.Kind)
	}
	if !n.Priority.IsValid() {
		return fmt.Errorf("invalid notification priority: %s", n.Priority)
	}
	if !n.Status.IsValid() {
		return fmt.Errorf("invalid notification status: %s", n.Status)
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("notification title cannot be empty")
	}
	return nil
}

// Clone returns a deep copy of the notification.
func (n Notification) Clone() Notification {
	if n.Metadata != nil {
		n.Metadata = maps.Clone(n.Metadata)
	}
	return n
}

// Meta returns a metadata value or the empty string.
func (n Notification) Meta(key string) string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata[key]
}

// ParseKind parses a string into a Kind.
func ParseKind(kind string) (Kind, error) {
	k := Kind(strings.ToLower(kind))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid notification kind: %s", kind)
	}
	return k, nil
}

// ParsePriority parses a string into a Priority.
func ParsePriority(priority string) (Priority, error) {
	p := Priority(strings.ToLower(priority))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid notification priority: %s", priority)
	}
	return p, nil
}

// ParseStatus parses a string into a Status.
func ParseStatus(status string) (Status, error) {
	s := Status(strings.ToLower(status))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid notification status: %s", status)
	}
	return s, nil
}
