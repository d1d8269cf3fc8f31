package domain

import (
	"fmt"
	"sort"
)

// GroupByMode specifies how notifications should be grouped.
type GroupByMode string

const (
	GroupByNone     GroupByMode = "none"
	GroupByKind     GroupByMode = "kind"
	GroupByPriority GroupByMode = "priority"
	GroupByStatus   GroupByMode = "status"
	GroupByEntity   GroupByMode = "entity"
)

// IsValid checks if the group by mode is valid.
func (g GroupByMode) IsValid() bool {
	switch g {
	case GroupByNone, GroupByKind, GroupByPriority, GroupByStatus, GroupByEntity:
		return true
	default:
		return false
	}
}

// String returns the string representation of the group by mode.
func (g GroupByMode) String() string {
	return string(g)
}

// ParseGroupByMode parses a string into a GroupByMode. Empty means none.
func ParseGroupByMode(mode string) (GroupByMode, error) {
	if mode == "" {
		return GroupByNone, nil
	}
	g := GroupByMode(mode)
	if !g.IsValid() {
		return "", fmt.Errorf("invalid group-by mode: %s", mode)
	}
	return g, nil
}

// Group is a set of notifications sharing a key.
type Group struct {
	Key           string
	DisplayName   string
	Count         int
	UnreadCount   int
	Notifications []Notification
}

// GroupResult represents the result of grouping notifications.
type GroupResult struct {
	Mode        GroupByMode
	Groups      []Group
	TotalCount  int
	TotalUnread int
}

func groupKey(n Notification, mode GroupByMode) string {
	switch mode {
	case GroupByKind:
		return n.Kind.String()
	case GroupByPriority:
		return n.Priority.String()
	case GroupByStatus:
		return n.Status.String()
	case GroupByEntity:
		return n.Meta(MetaEntityID)
	default:
		return ""
	}
}

// GroupNotifications groups notifications by mode. Groups keep feed order
// inside; priority groups run high to low and the others sort by key.
func GroupNotifications(notifs []Notification, mode GroupByMode) GroupResult {
	result := GroupResult{
		Mode:        mode,
		Groups:      []Group{},
		TotalCount:  len(notifs),
		TotalUnread: CountUnread(notifs),
	}
	if !mode.IsValid() {
		result.Mode = GroupByNone
	}
	if result.Mode == GroupByNone || len(notifs) == 0 {
		return result
	}

	index := make(map[string]int)
	for _, n := range notifs {
		key := groupKey(n, mode)
		i, ok := index[key]
		if !ok {
			name := key
			if name == "" {
				name = "(none)"
			}
			i = len(result.Groups)
			index[key] = i
			result.Groups = append(result.Groups, Group{Key: key, DisplayName: name})
		}
		g := &result.Groups[i]
		g.Notifications = append(g.Notifications, n)
		g.Count++
		if !n.Read {
			g.UnreadCount++
		}
	}

	sort.SliceStable(result.Groups, func(i, j int) bool {
		a, b := result.Groups[i], result.Groups[j]
		if mode == GroupByPriority {
			return priorityRank(Priority(a.Key)) > priorityRank(Priority(b.Key))
		}
		return a.DisplayName < b.DisplayName
	})
	return result
}

// GetGroupCounts returns the number of notifications per group key.
func GetGroupCounts(notifs []Notification, mode GroupByMode) map[string]int {
	counts := make(map[string]int)
	for _, g := range GroupNotifications(notifs, mode).Groups {
		counts[g.DisplayName] = g.Count
	}
	return counts
}
