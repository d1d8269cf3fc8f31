// Package notification defines the JSON record used for notifications at the
// dispatch boundary (action payloads, replay files, list output).
package notification

import (
	"encoding/json"
	"fmt"
	"io"
)

// Notification is the wire form of a notification.
type Notification struct {
	ID        string            `json:"id"`
	Kind      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"message,omitempty"`
	CreatedAt string            `json:"timestamp,omitempty"`
	Read      bool              `json:"read"`
	Priority  string            `json:"priority"`
	Status    string            `json:"status,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Updates is the wire form of a partial update. Absent fields are left untouched.
type Updates struct {
	Title    *string           `json:"title,omitempty"`
	Body     *string           `json:"message,omitempty"`
	Read     *bool             `json:"read,omitempty"`
	Priority *string           `json:"priority,omitempty"`
	Status   *string           `json:"status,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ParseNotification parses one JSON object into a Notification.
func ParseNotification(data []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return Notification{}, fmt.Errorf("parse notification: %w", err)
	}
	return n, nil
}

// WriteJSON writes notifications as an indented JSON array.
func WriteJSON(w io.Writer, notifs []Notification) error {
	if notifs == nil {
		notifs = []Notification{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(notifs)
}
