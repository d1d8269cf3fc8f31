package domain

import (
	"fmt"
	"strings"
)

// Read filter constants.
const (
	ReadFilterRead   = "read"
	ReadFilterUnread = "unread"
)

// Filter holds filter criteria for notifications.
type Filter struct {
	Kind       Kind
	Priority   Priority
	Status     Status
	EntityID   string
	ReadFilter string // "read", "unread", or "" (no filter)
}

// FilterOptions holds filter parameters as they arrive from CLI flags.
type FilterOptions struct {
	Kind       string
	Priority   string
	Status     string
	EntityID   string
	ReadFilter string
}

// ToFilter converts FilterOptions to a Filter struct.
func (fo FilterOptions) ToFilter() (Filter, error) {
	var (
		filter Filter
		err    error
	)
	if fo.Kind != "" {
		if filter.Kind, err = ParseKind(fo.Kind); err != nil {
			return Filter{}, err
		}
	}
	if fo.Priority != "" {
		if filter.Priority, err = ParsePriority(fo.Priority); err != nil {
			return Filter{}, err
		}
	}
	if fo.Status != "" {
		if filter.Status, err = ParseStatus(fo.Status); err != nil {
			return Filter{}, err
		}
	}
	if fo.ReadFilter != "" && fo.ReadFilter != ReadFilterRead && fo.ReadFilter != ReadFilterUnread {
		return Filter{}, fmt.Errorf("invalid read filter: %s", fo.ReadFilter)
	}
	filter.EntityID = strings.TrimSpace(fo.EntityID)
	filter.ReadFilter = fo.ReadFilter
	return filter, nil
}

// IsEmpty returns true if the filter has no criteria set.
func (f Filter) IsEmpty() bool {
	return f.Kind == "" &&
		f.Priority == "" &&
		f.Status == "" &&
		f.EntityID == "" &&
		f.ReadFilter == ""
}

// MatchesFilter checks if the notification matches the given filter criteria.
func (n *Notification) MatchesFilter(filter Filter) bool {
	if filter.Kind != "" && n.Kind != filter.Kind {
		return false
	}
	if filter.Priority != "" && n.Priority != filter.Priority {
		return false
	}
	if filter.Status != "" && n.Status != filter.Status {
		return false
	}
	if filter.EntityID != "" && n.Meta(MetaEntityID) != filter.EntityID {
		return false
	}
	switch filter.ReadFilter {
	case ReadFilterRead:
		return n.Read
	case ReadFilterUnread:
		return !n.Read
	}
	return true
}

// FilterNotifications returns the notifications matching filter, in their original order.
func FilterNotifications(notifs []Notification, filter Filter) []Notification {
	if filter.IsEmpty() {
		return notifs
	}

	result := make([]Notification, 0, len(notifs))
	for _, n := range notifs {
		if n.MatchesFilter(filter) {
			result = append(result, n)
		}
	}
	return result
}

// CountUnread counts notifications that have not been read.
func CountUnread(notifs []Notification) int {
	count := 0
	for i := range notifs {
		if !notifs[i].Read {
			count++
		}
	}
	return count
}
