package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// TableColumn is one column of the table.
type TableColumn struct {
	Name    string
	Width   int
	Extract func(domain.Notification) string
	// Style, when set, styles the padded cell.
	Style func(domain.Notification) lipgloss.Style
}

// TableFormatter renders an aligned table followed by an unread summary.
type TableFormatter struct {
	Columns     []TableColumn
	ShowHeaders bool
	ShowSummary bool
}

// NewTableFormatter returns a table with the default columns.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		ShowHeaders: true,
		ShowSummary: true,
		Columns: []TableColumn{
			{Name: "", Width: 1, Extract: func(n domain.Notification) string {
				if n.Read {
					return ""
				}
				return "•"
			}},
			{Name: "ID", Width: 8, Extract: func(n domain.Notification) string { return n.ID }},
			{Name: "Created", Width: 16, Extract: func(n domain.Notification) string {
				return n.CreatedAt.Local().Format("2006-01-02 15:04")
			}},
			{Name: "Kind", Width: 7, Extract: func(n domain.Notification) string { return n.Kind.String() }},
			{
				Name:    "Priority",
				Width:   8,
				Extract: func(n domain.Notification) string { return n.Priority.String() },
				Style:   func(n domain.Notification) lipgloss.Style { return PriorityStyle(n.Priority) },
			},
			{Name: "Status", Width: 17, Extract: func(n domain.Notification) string { return n.Status.String() }},
			{Name: "Title", Width: 40, Extract: func(n domain.Notification) string { return n.Title }},
		},
	}
}

// FormatNotifications writes the table. An empty feed prints a single line.
func (f *TableFormatter) FormatNotifications(notifs []domain.Notification, w io.Writer) error {
	if len(notifs) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No notifications"))
		return err
	}

	if f.ShowHeaders {
		cells := make([]string, len(f.Columns))
		rules := make([]string, len(f.Columns))
		for i, col := range f.Columns {
			cells[i] = pad(col.Name, col.Width)
			rules[i] = strings.Repeat("-", col.Width)
		}
		if _, err := fmt.Fprintln(w, headerStyle.Render(strings.Join(cells, "  "))); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, mutedStyle.Render(strings.Join(rules, "  "))); err != nil {
			return err
		}
	}

	for _, n := range notifs {
		cells := make([]string, len(f.Columns))
		for i, col := range f.Columns {
			cell := pad(col.Extract(n), col.Width)
			if col.Style != nil {
				cell = col.Style(n).Render(cell)
			}
			cells[i] = cell
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}

	if f.ShowSummary {
		_, err := fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d notification(s), %d unread", len(notifs), domain.CountUnread(notifs))))
		return err
	}
	return nil
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 3 {
			return string(r[:width])
		}
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}
