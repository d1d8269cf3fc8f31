package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{"valid review", KindReview, true},
		{"valid task", KindTask, true},
		{"valid message", KindMessage, true},
		{"valid alert", KindAlert, true},
		{"invalid empty", Kind(""), false},
		{"invalid other", Kind("reminder"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{"valid high", PriorityHigh, true},
		{"valid medium", PriorityMedium, true},
		{"valid low", PriorityLow, true},
		{"invalid empty", Priority(""), false},
		{"invalid urgent", Priority("urgent"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.IsValid())
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"none", StatusNone, true},
		{"accepted", StatusAccepted, true},
		{"pending approval", StatusPendingApproval, true},
		{"declined", StatusDeclinedRejected, true},
		{"invalid", Status("cancelled"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestNotification_Validate(t *testing.T) {
	valid := func() *Notification {
		return &Notification{
			ID:        "n-1",
			Kind:      KindAlert,
			Title:     "License expiring",
			CreatedAt: time.Now(),
			Priority:  PriorityHigh,
		}
	}

	t.Run("valid notification", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(n *Notification)
		wantErr string
	}{
		{"empty id", func(n *Notification) { n.ID = "  " }, "id cannot be empty"},
		{"bad kind", func(n *Notification) { n.Kind = "reminder" }, "invalid notification kind"},
		{"bad priority", func(n *Notification) { n.Priority = "" }, "invalid notification priority"},
		{"bad status", func(n *Notification) { n.Status = "maybe" }, "invalid notification status"},
		{"empty title", func(n *Notification) { n.Title = "" }, "title cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid()
			tt.mutate(n)
			err := n.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNotification_CloneDoesNotShareMetadata(t *testing.T) {
	n := Notification{ID: "1", Metadata: map[string]string{MetaEntityID: "prov-1"}}
	c := n.Clone()
	c.Metadata[MetaEntityID] = "changed"

	assert.Equal(t, "prov-1", n.Meta(MetaEntityID))
	assert.Equal(t, "changed", c.Meta(MetaEntityID))
}

func TestNotification_MetaOnNilMap(t *testing.T) {
	n := Notification{}
	assert.Equal(t, "", n.Meta(MetaFieldID))
	assert.Nil(t, n.Clone().Metadata)
}

func TestParseHelpers(t *testing.T) {
	k, err := ParseKind("ALERT")
	require.NoError(t, err)
	assert.Equal(t, KindAlert, k)

	p, err := ParsePriority("Medium")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	s, err := ParseStatus("pending_approval")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, s)

	_, err = ParseKind("nope")
	assert.Error(t, err)
	_, err = ParsePriority("nope")
	assert.Error(t, err)
	_, err = ParseStatus("nope")
	assert.Error(t, err)
}
