package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortByField specifies which field to sort notifications by.
type SortByField string

const (
	SortByCreatedField    SortByField = "created"
	SortByPriorityField   SortByField = "priority"
	SortByKindField       SortByField = "kind"
	SortByStatusField     SortByField = "status"
	SortByTitleField      SortByField = "title"
	SortByReadStatusField SortByField = "read_status"
)

// IsValid checks if the sort by field is valid.
func (s SortByField) IsValid() bool {
	switch s {
	case SortByCreatedField, SortByPriorityField, SortByKindField,
		SortByStatusField, SortByTitleField, SortByReadStatusField:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort by field.
func (s SortByField) String() string {
	return string(s)
}

// SortOrder specifies the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid checks if the sort order is valid.
func (s SortOrder) IsValid() bool {
	return s == SortOrderAsc || s == SortOrderDesc
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// SortOptions holds sorting options for notifications.
type SortOptions struct {
	Field SortByField
	Order SortOrder
}

// DefaultSortOptions returns the feed order: newest first.
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortByCreatedField, Order: SortOrderDesc}
}

// ParseSortByField parses a string into a SortByField.
func ParseSortByField(field string) (SortByField, error) {
	f := SortByField(strings.ToLower(field))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid sort field: %s", field)
	}
	return f, nil
}

// ParseSortOrder parses a string into a SortOrder.
func ParseSortOrder(order string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(order))
	if !o.IsValid() {
		return "", fmt.Errorf("invalid sort order: %s", order)
	}
	return o, nil
}

// priorityRank orders priorities low < medium < high.
func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// compare returns <0, 0 or >0 comparing a and b ascending on field.
func compare(a, b Notification, field SortByField) int {
	switch field {
	case SortByPriorityField:
		return priorityRank(a.Priority) - priorityRank(b.Priority)
	case SortByKindField:
		return strings.Compare(a.Kind.String(), b.Kind.String())
	case SortByStatusField:
		return strings.Compare(a.Status.String(), b.Status.String())
	case SortByTitleField:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortByReadStatusField:
		// Ascending puts unread first.
		switch {
		case a.Read == b.Read:
			return 0
		case !a.Read:
			return -1
		default:
			return 1
		}
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// SortNotifications returns a sorted copy of notifs. Ties keep feed order.
func SortNotifications(notifs []Notification, opts SortOptions) []Notification {
	if len(notifs) == 0 {
		return notifs
	}
	if !opts.Field.IsValid() {
		opts.Field = SortByCreatedField
	}
	if !opts.Order.IsValid() {
		opts.Order = SortOrderDesc
	}

	sorted := make([]Notification, len(notifs))
	copy(sorted, notifs)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j], opts.Field)
		if opts.Order == SortOrderDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// SortWithUnreadFirst puts unread notifications first, each part sorted by opts.
func SortWithUnreadFirst(notifs []Notification, opts SortOptions) []Notification {
	unread := make([]Notification, 0, len(notifs))
	read := make([]Notification, 0, len(notifs))
	for _, n := range notifs {
		if n.Read {
			read = append(read, n)
		} else {
			unread = append(unread, n)
		}
	}
	return append(SortNotifications(unread, opts), SortNotifications(read, opts)...)
}
