package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/dedup"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/logging"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

const (
	// DefaultLookahead is how far ahead an expiration date starts alerting.
	DefaultLookahead = 30 * 24 * time.Hour
	// DefaultExpirationInterval is the time between expiration scans.
	DefaultExpirationInterval = 24 * time.Hour
)

// ExpirationOptions configures an ExpirationWatcher. Zero values use defaults.
type ExpirationOptions struct {
	// Name identifies the watched collection, e.g. "credentials".
	Name      string
	Lookahead time.Duration
	Interval  time.Duration
	Now       func() time.Time
	TickChan  <-chan time.Time
	Logger    logging.Logger
	NewID     func() string
}

// MalformedField is a field whose expiration date could not be parsed.
type MalformedField struct {
	Key   dedup.Key
	Value string
	Err   error
}

// ScanReport summarizes one scan.
type ScanReport struct {
	// Fields is the number of fields examined.
	Fields int
	// Alerted lists keys that produced a notification in this scan.
	Alerted []dedup.Key
	// Suppressed lists keys that met the condition but were already alerted.
	Suppressed []dedup.Key
	// Renewed lists keys released because their date moved past the lookahead.
	Renewed []dedup.Key
	// Malformed lists fields skipped for a bad date.
	Malformed []MalformedField
	// Statuses holds the derived status of every parsed field. Owners of the
	// entities apply these; the watcher never writes back.
	Statuses map[dedup.Key]domain.ExpirationStatus
	// Failed holds dispatch errors by key.
	Failed map[dedup.Key]error
	// Removed lists entities that left the roster; their keys were released.
	Removed []string
	// Tracked is the number of alerted keys held after the scan.
	Tracked int
}

// ExpirationWatcher alerts on expiring fields of watched entities.
type ExpirationWatcher struct {
	source     EntitySource
	dispatcher bus.Dispatcher
	guard      *dedup.Guard
	opts       ExpirationOptions
	logger     logging.Logger
}

// NewExpirationWatcher creates a watcher that reads source and dispatches to d.
func NewExpirationWatcher(source EntitySource, d bus.Dispatcher, opts ExpirationOptions) *ExpirationWatcher {
	if opts.Name == "" {
		opts.Name = "expiration"
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultExpirationInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newID
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobal()
	}
	return &ExpirationWatcher{
		source:     source,
		dispatcher: d,
		guard:      dedup.New(),
		opts:       opts,
		logger:     logger.With("component", "watcher", "watcher", opts.Name),
	}
}

// Name returns the watched collection name.
func (w *ExpirationWatcher) Name() string { return w.opts.Name }

// Reset forgets every alerted key.
func (w *ExpirationWatcher) Reset() { w.guard.Reset() }

// Run scans immediately and then once per interval until ctx is done.
func (w *ExpirationWatcher) Run(ctx context.Context) error {
	ticks, stop := tickChan(w.opts.TickChan, w.opts.Interval)
	defer stop()
	w.logger.Info("watcher started", "interval", w.opts.Interval.String(), "lookahead", w.opts.Lookahead.String())
	defer w.logger.Info("watcher stopped")

	return loop(ctx, ticks, func(ctx context.Context) {
		if _, err := w.Scan(ctx); err != nil {
			w.logger.Error("scan failed", "error", err)
		}
	})
}

// Scan evaluates one snapshot of the source. A field alerts when its date is
// within the lookahead, its stored status is still active, and it has not
// alerted before in this session. Bad dates are skipped and reported.
func (w *ExpirationWatcher) Scan(ctx context.Context) (ScanReport, error) {
	report := ScanReport{
		Statuses: make(map[dedup.Key]domain.ExpirationStatus),
		Failed:   make(map[dedup.Key]error),
	}
	entities, err := w.source.Entities(ctx)
	if err != nil {
		return report, fmt.Errorf("snapshot %s: %w", w.opts.Name, err)
	}

	now := w.opts.Now()
	cutoff := now.Add(w.opts.Lookahead)
	present := make(map[string]bool, len(entities))

	for _, entity := range entities {
		present[entity.ID] = true
		for _, field := range entity.Fields {
			report.Fields++
			key := dedup.Key{EntityID: entity.ID, FieldID: field.ID}

			expiresAt, err := domain.ParseExpirationDate(field.ExpirationDate)
			if err != nil {
				w.logger.Warn("skipping field with malformed expiration date", "entity", entity.ID, "field", field.ID, "error", err)
				report.Malformed = append(report.Malformed, MalformedField{Key: key, Value: field.ExpirationDate, Err: err})
				continue
			}
			derived := domain.DeriveExpirationStatus(expiresAt, now, w.opts.Lookahead)
			report.Statuses[key] = derived

			if expiresAt.After(cutoff) {
				if w.guard.Release(key) {
					report.Renewed = append(report.Renewed, key)
					w.logger.Debug("expiration renewed", "entity", entity.ID, "field", field.ID)
				}
				continue
			}
			if field.Status != "" && field.Status != domain.ExpirationActive {
				continue
			}
			if !w.guard.Mark(key) {
				report.Suppressed = append(report.Suppressed, key)
				continue
			}

			n := w.alert(entity, field, expiresAt, derived, now)
			if err := w.dispatcher.Dispatch(ctx, store.Add{Notification: n}); err != nil {
				// Let a later scan retry this key.
				w.guard.Release(key)
				report.Failed[key] = err
				w.logger.Warn("alert dispatch failed", "entity", entity.ID, "field", field.ID, "error", err)
				continue
			}
			report.Alerted = append(report.Alerted, key)
			w.logger.Info("expiration alert", "entity", entity.ID, "field", field.ID, "status", derived.String())
		}
	}
	report.Removed = forgetMissing(w.guard, present)
	for _, id := range report.Removed {
		w.logger.Debug("entity left roster", "entity", id)
	}
	report.Tracked = w.guard.Len()
	return report, nil
}

func (w *ExpirationWatcher) alert(entity domain.WatchedEntity, field domain.ExpiringField, expiresAt time.Time, status domain.ExpirationStatus, now time.Time) domain.Notification {
	label := field.Label
	if label == "" {
		label = field.Type
	}
	title := fmt.Sprintf("%s expiring soon", label)
	body := fmt.Sprintf("%s: %s expires on %s", entity.Name, label, expiresAt.Format("Jan 2, 2006"))
	if status == domain.ExpirationExpired {
		title = fmt.Sprintf("%s expired", label)
		body = fmt.Sprintf("%s: %s expired on %s", entity.Name, label, expiresAt.Format("Jan 2, 2006"))
	}
	return domain.Notification{
		ID:        w.opts.NewID(),
		Kind:      domain.KindAlert,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		Priority:  domain.PriorityHigh,
		Metadata: map[string]string{
			domain.MetaEntityID:  entity.ID,
			domain.MetaFieldID:   field.ID,
			domain.MetaFieldType: field.Type,
		},
	}
}
