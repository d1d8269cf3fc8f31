package format

import (
	"bytes"
	"testing"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBadgeContext(t *testing.T) {
	ctx := NewBadgeContext(sampleFeed())
	assert.Equal(t, BadgeContext{
		TotalCount:      3,
		UnreadCount:     2,
		ReadCount:       1,
		HighCount:       1,
		MediumCount:     1,
		AlertCount:      1,
		ReviewCount:     1,
		PendingCount:    1,
		LatestTitle:     "DEA registration expiring soon",
		HighestPriority: domain.PriorityHigh,
	}, ctx)

	empty := NewBadgeContext(nil)
	assert.Zero(t, empty.UnreadCount)
	assert.Equal(t, domain.Priority(""), empty.HighestPriority)
}

func TestParseTemplate(t *testing.T) {
	assert.Equal(t, []string{"unread-count", "latest-title"}, ParseTemplate("{{unread-count}} {{latest-title}} {{unread-count}}"))
	assert.Empty(t, ParseTemplate("no variables"))
}

func TestValidateTemplate(t *testing.T) {
	require.NoError(t, ValidateTemplate("{{unread-count}} unread"))
	require.ErrorContains(t, ValidateTemplate("{{unread-count}"), "mismatched")
	require.ErrorContains(t, ValidateTemplate("{{pane-list}}"), "unknown variable: pane-list")
}

func TestRenderTemplate(t *testing.T) {
	ctx := NewBadgeContext(sampleFeed())
	out, err := RenderTemplate("{{high-count}}/{{unread-count}} {{has-unread}} {{highest-priority}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "1/2 true high", out)

	_, err = RenderTemplate("{{nope}}", ctx)
	require.Error(t, err)
}

func TestBadgeFormatter(t *testing.T) {
	tests := []struct {
		preset string
		want   string
	}{
		{"", "[2] DEA registration expiring soon\n"},
		{"count-only", "2\n"},
		{"priorities", "1 high / 1 medium / 0 low\n"},
		{"reviews", "1 pending review(s), 1 alert(s)\n"},
		{"json", `{"unread":2,"total":3,"highest":"high"}` + "\n"},
		{"{{task-count}} task(s)", "0 task(s)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			f, err := NewBadgeFormatter(tt.preset)
			require.NoError(t, err)
			var buf bytes.Buffer
			require.NoError(t, f.FormatNotifications(sampleFeed(), &buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	_, err := NewBadgeFormatter("{{latest-message}}")
	require.Error(t, err)
}

func TestPresetsAreValid(t *testing.T) {
	ps := Presets()
	require.NotEmpty(t, ps)
	assert.Equal(t, "compact", ps[0].Name)
	for _, p := range ps {
		assert.NoError(t, ValidateTemplate(p.Template), p.Name)
	}
	ps[0].Name = "changed"
	assert.Equal(t, "compact", Presets()[0].Name)
}
