package watcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/dedup"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func date(days int) string {
	return now.Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
}

func provider(id string, fields ...domain.ExpiringField) domain.WatchedEntity {
	return domain.WatchedEntity{ID: id, Name: "Dr. " + id, Fields: fields}
}

func field(id string, days int) domain.ExpiringField {
	return domain.ExpiringField{
		ID:             id,
		Type:           "license",
		Label:          "State license",
		ExpirationDate: date(days),
		Status:         domain.ExpirationActive,
	}
}

func staticSource(entities ...domain.WatchedEntity) EntitySource {
	return EntitySourceFunc(func(context.Context) ([]domain.WatchedEntity, error) {
		return entities, nil
	})
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("alert-%d", n)
	}
}

func newExpiration(src EntitySource, d bus.Dispatcher) *ExpirationWatcher {
	return NewExpirationWatcher(src, d, ExpirationOptions{
		Name:  "credentials",
		Now:   func() time.Time { return now },
		NewID: sequentialIDs(),
	})
}

func TestCredentialScanEmitsOnceAcrossScans(t *testing.T) {
	b := bus.New(nil)
	w := newExpiration(staticSource(provider("prov-1", field("lic-1", 20))), b)

	report, err := w.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []dedup.Key{{EntityID: "prov-1", FieldID: "lic-1"}}, report.Alerted)

	state := b.State()
	require.Len(t, state.Notifications, 1)
	n := state.Notifications[0]
	assert.Equal(t, domain.KindAlert, n.Kind)
	assert.Equal(t, domain.PriorityHigh, n.Priority)
	assert.False(t, n.Read)
	assert.Equal(t, "prov-1", n.Meta(domain.MetaEntityID))
	assert.Equal(t, "lic-1", n.Meta(domain.MetaFieldID))
	assert.Equal(t, "license", n.Meta(domain.MetaFieldType))
	assert.Equal(t, 1, state.UnreadCount)

	report, err = w.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Alerted)
	assert.Len(t, report.Suppressed, 1)
	assert.Len(t, b.State().Notifications, 1)
}

func TestScanConditions(t *testing.T) {
	expiring := field("expiring", 10)
	boundary := field("boundary", 30)
	later := field("later", 31)
	expired := field("expired", -2)
	flagged := field("flagged", 5)
	flagged.Status = domain.ExpirationExpiring
	unset := field("unset", 3)
	unset.Status = ""

	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, mock.AnythingOfType("store.Add")).Return(nil)

	w := newExpiration(staticSource(provider("p", expiring, boundary, later, expired, flagged, unset)), d)
	report, err := w.Scan(context.Background())
	require.NoError(t, err)

	var alerted []string
	for _, k := range report.Alerted {
		alerted = append(alerted, k.FieldID)
	}
	assert.Equal(t, []string{"expiring", "boundary", "expired", "unset"}, alerted)
	assert.Equal(t, 6, report.Fields)
	assert.Equal(t, domain.ExpirationActive, report.Statuses[dedup.Key{EntityID: "p", FieldID: "later"}])
	assert.Equal(t, domain.ExpirationExpiring, report.Statuses[dedup.Key{EntityID: "p", FieldID: "boundary"}])
	assert.Equal(t, domain.ExpirationExpired, report.Statuses[dedup.Key{EntityID: "p", FieldID: "expired"}])

	added := d.added()
	require.Len(t, added, 4)
	assert.Equal(t, "State license expired", added[2].Title)
	assert.Equal(t, "State license expiring soon", added[0].Title)
	assert.Contains(t, added[0].Body, "Dr. p")
	for _, n := range added {
		assert.NoError(t, n.Validate())
	}
}

func TestMalformedDatesAreSkipped(t *testing.T) {
	bad := field("bad", 0)
	bad.ExpirationDate = "next spring"
	empty := field("empty", 0)
	empty.ExpirationDate = ""

	b := bus.New(nil)
	w := newExpiration(staticSource(provider("p", bad, empty, field("good", 1))), b)

	report, err := w.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Malformed, 2)
	assert.Equal(t, "next spring", report.Malformed[0].Value)
	assert.Error(t, report.Malformed[0].Err)
	assert.Len(t, report.Alerted, 1)
	assert.Equal(t, 1, b.State().Len())
}

func TestRenewalReleasesKey(t *testing.T) {
	fields := []domain.ExpiringField{field("lic", 10)}
	src := EntitySourceFunc(func(context.Context) ([]domain.WatchedEntity, error) {
		return []domain.WatchedEntity{provider("p", fields...)}, nil
	})
	b := bus.New(nil)
	w := newExpiration(src, b)
	ctx := context.Background()

	_, err := w.Scan(ctx)
	require.NoError(t, err)

	fields[0].ExpirationDate = date(365)
	report, err := w.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dedup.Key{{EntityID: "p", FieldID: "lic"}}, report.Renewed)

	fields[0].ExpirationDate = date(7)
	report, err = w.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Alerted, 1, "a renewed field alerts again when it approaches")
	assert.Equal(t, 2, b.State().Len())
}

func TestEntityLeavingRosterIsForgotten(t *testing.T) {
	entities := []domain.WatchedEntity{
		provider("prov-1", field("lic", 10), field("dea", 12)),
		provider("prov-2", field("lic", 5)),
	}
	src := EntitySourceFunc(func(context.Context) ([]domain.WatchedEntity, error) { return entities, nil })
	b := bus.New(nil)
	w := newExpiration(src, b)
	ctx := context.Background()

	report, err := w.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Alerted, 3)
	assert.Equal(t, 3, report.Tracked)
	assert.Empty(t, report.Removed)

	entities = entities[1:]
	report, err = w.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"prov-1"}, report.Removed)
	assert.Equal(t, 1, report.Tracked)

	entities = append(entities, provider("prov-1", field("lic", 10)))
	report, err = w.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dedup.Key{{EntityID: "prov-1", FieldID: "lic"}}, report.Alerted, "a returning entity alerts again")
	assert.Equal(t, 2, report.Tracked)
	assert.Equal(t, 4, b.State().Len())
}

func TestResetAllowsRealert(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, mock.Anything).Return(nil)
	w := newExpiration(staticSource(provider("p", field("lic", 10))), d)

	_, _ = w.Scan(context.Background())
	w.Reset()
	_, _ = w.Scan(context.Background())
	d.AssertNumberOfCalls(t, "Dispatch", 2)
}

func TestDispatchFailureIsRetriedNextScan(t *testing.T) {
	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, mock.Anything).Return(store.ErrDuplicateID).Once()
	d.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Once()
	w := newExpiration(staticSource(provider("p", field("lic", 10))), d)

	report, err := w.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Alerted)
	assert.ErrorIs(t, report.Failed[dedup.Key{EntityID: "p", FieldID: "lic"}], store.ErrDuplicateID)

	report, err = w.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Alerted, 1)
	d.AssertExpectations(t)
}

func TestSourceErrorIsReturned(t *testing.T) {
	src := new(mockEntitySource)
	src.On("Entities", mock.Anything).Return(nil, errors.New("roster unavailable"))
	d := new(mockDispatcher)

	w := newExpiration(src, d)
	_, err := w.Scan(context.Background())
	require.ErrorContains(t, err, "roster unavailable")
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestRunScansImmediatelyAndOnTicks(t *testing.T) {
	src := new(mockEntitySource)
	scanned := make(chan struct{}, 10)
	src.On("Entities", mock.Anything).
		Return([]domain.WatchedEntity{provider("p", field("lic", 10))}, nil).
		Run(func(mock.Arguments) { scanned <- struct{}{} })

	b := bus.New(nil)
	ticks := make(chan time.Time)
	w := NewExpirationWatcher(src, b, ExpirationOptions{
		Now:      func() time.Time { return now },
		TickChan: ticks,
	})

	h := Start(context.Background(), w)
	<-scanned
	ticks <- now
	<-scanned
	ticks <- now
	<-scanned
	require.NoError(t, h.Stop())
	require.NoError(t, h.Stop())

	src.AssertNumberOfCalls(t, "Entities", 3)
	assert.Equal(t, 1, b.State().Len(), "repeated scans do not duplicate alerts")

	select {
	case <-h.Done():
	default:
		t.Fatal("handle should be done after Stop")
	}
}

func TestRunKeepsGoingAfterSourceError(t *testing.T) {
	src := new(mockEntitySource)
	scanned := make(chan struct{}, 10)
	src.On("Entities", mock.Anything).Return(nil, errors.New("temporarily down")).Once().
		Run(func(mock.Arguments) { scanned <- struct{}{} })
	src.On("Entities", mock.Anything).Return([]domain.WatchedEntity{provider("p", field("lic", 10))}, nil).
		Run(func(mock.Arguments) { scanned <- struct{}{} })

	b := bus.New(nil)
	ticks := make(chan time.Time)
	w := NewExpirationWatcher(src, b, ExpirationOptions{Now: func() time.Time { return now }, TickChan: ticks})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	<-scanned
	ticks <- now
	<-scanned
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 1, b.State().Len())
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := newExpiration(staticSource(), new(mockDispatcher))
	w.opts.TickChan = make(chan time.Time)
	require.NoError(t, w.Run(ctx))
}
