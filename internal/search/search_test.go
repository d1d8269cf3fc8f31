package search

import (
	"testing"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var licenseAlert = domain.Notification{
	ID:        "a-1",
	Kind:      domain.KindAlert,
	Title:     "State dental license expiring soon",
	Body:      "Dr. Ana Patel: State dental license expires on Nov 7, 2026",
	CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	Priority:  domain.PriorityHigh,
	Metadata:  map[string]string{domain.MetaEntityID: "prov-1", domain.MetaFieldID: "state-license"},
}

var rescheduleReview = domain.Notification{
	ID:       "r-1",
	Kind:     domain.KindReview,
	Title:    "Reschedule requested",
	Body:     "Pat Doe asks to move Oct 20 10:00 to Oct 22 10:00",
	Read:     true,
	Priority: domain.PriorityMedium,
	Status:   domain.StatusPendingApproval,
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.False(t, opts.CaseInsensitive)
	assert.Equal(t, []string{FieldTitle, FieldBody, FieldMetadata}, opts.Fields)

	WithCaseInsensitive(true)(&opts)
	WithFields([]string{FieldKind})(&opts)
	assert.True(t, opts.CaseInsensitive)
	assert.Equal(t, []string{FieldKind}, opts.Fields)
}

func TestSubstringProvider(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		notif domain.Notification
		query string
		want  bool
	}{
		{"empty query", nil, licenseAlert, "", true},
		{"title", nil, licenseAlert, "dental license", true},
		{"body", nil, licenseAlert, "Ana Patel", true},
		{"metadata value", nil, licenseAlert, "prov-1", true},
		{"case sensitive miss", nil, licenseAlert, "STATE", false},
		{"case insensitive", []Option{WithCaseInsensitive(true)}, licenseAlert, "STATE", true},
		{"field not searched", nil, licenseAlert, "alert", false},
		{"kind field", []Option{WithFields([]string{FieldKind})}, licenseAlert, "alert", true},
		{"status field", []Option{WithFields([]string{FieldStatus})}, rescheduleReview, "pending", true},
		{"unknown field", []Option{WithFields([]string{"pane"})}, licenseAlert, "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSubstringProvider(tt.opts...)
			assert.Equal(t, tt.want, p.Match(tt.notif, tt.query))
			assert.Equal(t, "substring", p.Name())
		})
	}
}

func TestRegexProvider(t *testing.T) {
	p := NewRegexProvider()
	assert.True(t, p.Match(licenseAlert, `expir(ing|ed)`))
	assert.True(t, p.Match(licenseAlert, `^prov-\d+$`))
	assert.False(t, p.Match(rescheduleReview, `expir`))
	assert.False(t, p.Match(licenseAlert, `[unclosed`), "invalid patterns match nothing")
	assert.True(t, p.Match(licenseAlert, ""))

	ci := NewRegexProvider(WithCaseInsensitive(true))
	assert.True(t, ci.Match(licenseAlert, `^STATE`))

	rp := p.(*RegexProvider)
	require.Error(t, rp.Validate(`(`))
	require.NoError(t, rp.Validate(`a+`))
	assert.Len(t, rp.cache, 4, "valid patterns are cached")
}

func TestTokenProvider(t *testing.T) {
	p := NewTokenProvider(WithCaseInsensitive(true))
	tests := []struct {
		query string
		notif domain.Notification
		want  bool
	}{
		{"license expiring", licenseAlert, true},
		{"license renewed", licenseAlert, false},
		{"unread", licenseAlert, true},
		{"unread", rescheduleReview, false},
		{"read reschedule", rescheduleReview, true},
		{"read unread", licenseAlert, true},
		{"priority:high", licenseAlert, true},
		{"priority:HIGH license", licenseAlert, true},
		{"priority:high", rescheduleReview, false},
		{"status:pending_approval", rescheduleReview, true},
		{"kind:review unread", rescheduleReview, false},
		{"   ", licenseAlert, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.notif, tt.query))
		})
	}
}

func TestNew(t *testing.T) {
	for mode, want := range map[Mode]string{"": "substring", ModeSubstring: "substring", ModeRegex: "regex", ModeToken: "token"} {
		p, err := New(mode)
		require.NoError(t, err)
		assert.Equal(t, want, p.Name())
	}
	_, err := New("fuzzy")
	require.Error(t, err)
}

func TestFilter(t *testing.T) {
	feed := []domain.Notification{licenseAlert, rescheduleReview}
	assert.Equal(t, feed, Filter(nil, feed, "x"))
	assert.Equal(t, feed, Filter(NewSubstringProvider(), feed, ""))

	got := Filter(NewSubstringProvider(), feed, "Reschedule")
	require.Len(t, got, 1)
	assert.Equal(t, "r-1", got[0].ID)

	m := &MockProvider{}
	m.On("Match", mock.Anything, "q").Return(false)
	assert.Empty(t, Filter(m, feed, "q"))
	m.AssertNumberOfCalls(t, "Match", 2)
}
