package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// GroupedFormatter prints one section per group, each rendered by Inner.
type GroupedFormatter struct {
	Inner Formatter
	Mode  domain.GroupByMode
}

// NewGroupedFormatter wraps inner. GroupByNone returns inner unchanged.
func NewGroupedFormatter(inner Formatter, mode domain.GroupByMode) Formatter {
	if mode == domain.GroupByNone || !mode.IsValid() {
		return inner
	}
	return &GroupedFormatter{Inner: inner, Mode: mode}
}

// FormatNotifications implements Formatter.
func (f *GroupedFormatter) FormatNotifications(notifs []domain.Notification, w io.Writer) error {
	res := domain.GroupNotifications(notifs, f.Mode)
	if len(res.Groups) == 0 {
		return f.Inner.FormatNotifications(notifs, w)
	}
	for i, g := range res.Groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		header := fmt.Sprintf("%s: %s (%d, %d unread)", f.Mode, g.DisplayName, g.Count, g.UnreadCount)
		if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
			return err
		}
		if err := f.Inner.FormatNotifications(g.Notifications, w); err != nil {
			return err
		}
	}
	return nil
}
