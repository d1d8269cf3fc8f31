package hooks

import (
	"context"
	"strconv"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// Observer returns a bus observer that runs post-add, post-remove and
// post-clear hooks. The feed change is already applied when hooks run, so an
// aborting hook is only logged.
func (r *Runner) Observer() bus.Observer {
	return func(ctx context.Context, ev bus.Event) {
		point, env, ok := hookFor(ev)
		if !ok {
			return
		}
		if err := r.Run(ctx, point, env); err != nil {
			r.logger.Error("hook aborted", "point", string(point), "error", err)
		}
	}
}

// hookFor maps an applied action to its hook point and environment.
func hookFor(ev bus.Event) (Point, map[string]string, bool) {
	switch a := ev.Action.(type) {
	case store.Add:
		n, ok := ev.Next.Find(a.Notification.ID)
		if !ok {
			return "", nil, false
		}
		return PostAdd, notificationEnv(n, ev.Next), true
	case store.Remove:
		n, ok := ev.Prev.Find(a.ID)
		if !ok {
			return "", nil, false
		}
		return PostRemove, notificationEnv(n, ev.Next), true
	case store.ClearAll:
		return PostClear, map[string]string{
			"CLEARED_COUNT": strconv.Itoa(ev.Prev.Len()),
			"UNREAD_COUNT":  "0",
		}, true
	default:
		return "", nil, false
	}
}

func notificationEnv(n domain.Notification, next store.State) map[string]string {
	return map[string]string{
		"NOTIFICATION_ID":       n.ID,
		"NOTIFICATION_KIND":     n.Kind.String(),
		"NOTIFICATION_PRIORITY": n.Priority.String(),
		"NOTIFICATION_TITLE":    n.Title,
		"NOTIFICATION_STATUS":   n.Status.String(),
		"ENTITY_ID":             n.Meta(domain.MetaEntityID),
		"FIELD_ID":              n.Meta(domain.MetaFieldID),
		"UNREAD_COUNT":          strconv.Itoa(next.UnreadCount),
	}
}
