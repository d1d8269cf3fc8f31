// Package format renders notification feeds for the terminal.
package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/notification"
)

// Formatter writes a feed to w.
type Formatter interface {
	FormatNotifications(notifs []domain.Notification, w io.Writer) error
}

// FormatterType names an output style.
type FormatterType string

const (
	// FormatterTypeTable is an aligned table with a header and unread summary.
	FormatterTypeTable FormatterType = "table"
	// FormatterTypeCompact is one line per notification.
	FormatterTypeCompact FormatterType = "compact"
	// FormatterTypeJSON is an indented JSON array in the wire format.
	FormatterTypeJSON FormatterType = "json"
	// FormatterTypeBadge is a one-line summary using the compact badge preset.
	FormatterTypeBadge FormatterType = "badge"
)

// NewFormatter returns the formatter for t. Unknown types fall back to table.
func NewFormatter(t FormatterType) Formatter {
	switch t {
	case FormatterTypeCompact:
		return CompactFormatter{}
	case FormatterTypeJSON:
		return JSONFormatter{}
	case FormatterTypeBadge:
		return &BadgeFormatter{Template: presets[0].Template}
	default:
		return NewTableFormatter()
	}
}

// JSONFormatter writes the wire representation.
type JSONFormatter struct{}

// FormatNotifications writes notifs as a JSON array. An empty feed is [].
func (JSONFormatter) FormatNotifications(notifs []domain.Notification, w io.Writer) error {
	return notification.WriteJSON(w, notification.FromDomainSlice(notifs))
}

// CompactFormatter writes one line per notification.
type CompactFormatter struct{}

// FormatNotifications writes each notification with FormatLine.
func (CompactFormatter) FormatNotifications(notifs []domain.Notification, w io.Writer) error {
	for _, n := range notifs {
		if _, err := fmt.Fprintln(w, FormatLine(n)); err != nil {
			return err
		}
	}
	return nil
}

// FormatLine renders one notification as
//
//	[2026-10-18 09:00:00] [high] alert: DEA registration expiring soon
//
// with the priority coloured. Unread notifications are marked with a bullet.
func FormatLine(n domain.Notification) string {
	marker := " "
	if !n.Read {
		marker = "•"
	}
	line := fmt.Sprintf("%s [%s] [%s] %s: %s",
		marker,
		n.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		PriorityStyle(n.Priority).Render(n.Priority.String()),
		n.Kind.String(),
		n.Title)
	if n.Status != domain.StatusNone {
		line += " (" + n.Status.String() + ")"
	}
	return line
}
