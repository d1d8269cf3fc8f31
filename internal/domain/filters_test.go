package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed() []Notification {
	return []Notification{
		{ID: "3", Kind: KindAlert, Title: "DEA license expiring", Priority: PriorityHigh,
			Metadata: map[string]string{MetaEntityID: "prov-7"}},
		{ID: "2", Kind: KindReview, Title: "Reschedule request", Body: "Dr. Lee asks to move Tuesday",
			Priority: PriorityMedium, Status: StatusPendingApproval, Read: true},
		{ID: "1", Kind: KindMessage, Title: "Bonus added", Priority: PriorityLow},
	}
}

func ids(notifs []Notification) []string {
	out := make([]string, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, n.ID)
	}
	return out
}

func TestFilterOptions_ToFilter(t *testing.T) {
	f, err := FilterOptions{Kind: "alert", Priority: "high", ReadFilter: ReadFilterUnread, EntityID: " prov-7 "}.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, Filter{Kind: KindAlert, Priority: PriorityHigh, EntityID: "prov-7", ReadFilter: ReadFilterUnread}, f)

	_, err = FilterOptions{Kind: "banner"}.ToFilter()
	assert.Error(t, err)
	_, err = FilterOptions{Priority: "urgent"}.ToFilter()
	assert.Error(t, err)
	_, err = FilterOptions{Status: "archived"}.ToFilter()
	assert.Error(t, err)
	_, err = FilterOptions{ReadFilter: "seen"}.ToFilter()
	assert.Error(t, err)
}

func TestFilterNotifications(t *testing.T) {
	feed := sampleFeed()
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter keeps all", Filter{}, []string{"3", "2", "1"}},
		{"by kind", Filter{Kind: KindReview}, []string{"2"}},
		{"by priority", Filter{Priority: PriorityLow}, []string{"1"}},
		{"by status", Filter{Status: StatusPendingApproval}, []string{"2"}},
		{"by entity", Filter{EntityID: "prov-7"}, []string{"3"}},
		{"unread", Filter{ReadFilter: ReadFilterUnread}, []string{"3", "1"}},
		{"read", Filter{ReadFilter: ReadFilterRead}, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterNotifications(feed, tt.filter)))
		})
	}
}

func TestCountUnread(t *testing.T) {
	assert.Equal(t, 2, CountUnread(sampleFeed()))
	assert.Equal(t, 0, CountUnread(nil))
}
