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
	// DefaultHeartbeatTimeout is how long a kiosk may stay silent.
	DefaultHeartbeatTimeout = 15 * time.Minute
	// DefaultHeartbeatInterval is the time between heartbeat scans.
	DefaultHeartbeatInterval = time.Minute

	heartbeatFieldID   = "heartbeat"
	heartbeatFieldType = "kiosk"
)

// HeartbeatOptions configures a HeartbeatWatcher. Zero values use defaults.
type HeartbeatOptions struct {
	Timeout  time.Duration
	Interval time.Duration
	Now      func() time.Time
	TickChan <-chan time.Time
	Logger   logging.Logger
	NewID    func() string
}

// HeartbeatReport summarizes one heartbeat scan.
type HeartbeatReport struct {
	Kiosks     int
	Offline    []string
	Alerted    []string
	Recovered  []string
	Suppressed []string
	Failed     map[string]error
	// Removed lists kiosks that left the roster; their outages were forgotten.
	Removed []string
	// Tracked is the number of outages still alerted after the scan.
	Tracked int
}

// HeartbeatWatcher alerts once per outage for kiosks that stopped reporting.
type HeartbeatWatcher struct {
	source     KioskSource
	dispatcher bus.Dispatcher
	guard      *dedup.Guard
	opts       HeartbeatOptions
	logger     logging.Logger
}

// NewHeartbeatWatcher creates a watcher that reads source and dispatches to d.
func NewHeartbeatWatcher(source KioskSource, d bus.Dispatcher, opts HeartbeatOptions) *HeartbeatWatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultHeartbeatTimeout
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultHeartbeatInterval
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
	return &HeartbeatWatcher{
		source:     source,
		dispatcher: d,
		guard:      dedup.New(),
		opts:       opts,
		logger:     logger.With("component", "watcher", "watcher", "kiosks"),
	}
}

// Name returns "kiosks".
func (w *HeartbeatWatcher) Name() string { return "kiosks" }

// Reset forgets every outage already alerted.
func (w *HeartbeatWatcher) Reset() { w.guard.Reset() }

// Run scans immediately and then once per interval until ctx is done.
func (w *HeartbeatWatcher) Run(ctx context.Context) error {
	ticks, stop := tickChan(w.opts.TickChan, w.opts.Interval)
	defer stop()
	w.logger.Info("watcher started", "interval", w.opts.Interval.String(), "timeout", w.opts.Timeout.String())
	defer w.logger.Info("watcher stopped")

	return loop(ctx, ticks, func(ctx context.Context) {
		if _, err := w.Scan(ctx); err != nil {
			w.logger.Error("scan failed", "error", err)
		}
	})
}

// Scan checks every kiosk's last heartbeat. A kiosk that was never seen is
// treated as offline.
func (w *HeartbeatWatcher) Scan(ctx context.Context) (HeartbeatReport, error) {
	report := HeartbeatReport{Failed: make(map[string]error)}
	kiosks, err := w.source.Kiosks(ctx)
	if err != nil {
		return report, fmt.Errorf("snapshot kiosks: %w", err)
	}

	now := w.opts.Now()
	present := make(map[string]bool, len(kiosks))
	for _, k := range kiosks {
		present[k.ID] = true
		report.Kiosks++
		key := dedup.Key{EntityID: k.ID, FieldID: heartbeatFieldID}

		if !k.LastSeen.IsZero() && now.Sub(k.LastSeen) <= w.opts.Timeout {
			if w.guard.Release(key) {
				report.Recovered = append(report.Recovered, k.ID)
				w.logger.Info("kiosk back online", "kiosk", k.ID)
			}
			continue
		}

		report.Offline = append(report.Offline, k.ID)
		if !w.guard.Mark(key) {
			report.Suppressed = append(report.Suppressed, k.ID)
			continue
		}
		if err := w.dispatcher.Dispatch(ctx, store.Add{Notification: w.alert(k, now)}); err != nil {
			w.guard.Release(key)
			report.Failed[k.ID] = err
			w.logger.Warn("alert dispatch failed", "kiosk", k.ID, "error", err)
			continue
		}
		report.Alerted = append(report.Alerted, k.ID)
		w.logger.Info("kiosk offline alert", "kiosk", k.ID)
	}
	report.Removed = forgetMissing(w.guard, present)
	for _, id := range report.Removed {
		w.logger.Debug("kiosk left roster", "kiosk", id)
	}
	report.Tracked = w.guard.Len()
	return report, nil
}

func (w *HeartbeatWatcher) alert(k domain.Kiosk, now time.Time) domain.Notification {
	name := k.Name
	if name == "" {
		name = k.ID
	}
	body := fmt.Sprintf("%s has not reported since %s", name, k.LastSeen.Format("Jan 2 15:04"))
	if k.LastSeen.IsZero() {
		body = fmt.Sprintf("%s has never reported", name)
	}
	if k.Location != "" {
		body += " (" + k.Location + ")"
	}
	return domain.Notification{
		ID:        w.opts.NewID(),
		Kind:      domain.KindAlert,
		Title:     fmt.Sprintf("Kiosk %s offline", name),
		Body:      body,
		CreatedAt: now,
		Priority:  domain.PriorityHigh,
		Metadata: map[string]string{
			domain.MetaEntityID:  k.ID,
			domain.MetaFieldID:   heartbeatFieldID,
			domain.MetaFieldType: heartbeatFieldType,
		},
	}
}
