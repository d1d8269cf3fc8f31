// Package session owns one notification feed and everything that writes to it.
//
// A Session replaces a process-wide notification context: callers create one,
// start its watchers, hand its Handle to consumers and close it on teardown.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/config"
	"github.com/cristianoliveira/practice-alerts/internal/hooks"
	"github.com/cristianoliveira/practice-alerts/internal/logging"
	"github.com/cristianoliveira/practice-alerts/internal/producer"
	"github.com/cristianoliveira/practice-alerts/internal/roster"
	"github.com/cristianoliveira/practice-alerts/internal/store"
	"github.com/cristianoliveira/practice-alerts/internal/watcher"
)

var (
	// ErrAlreadyStarted is returned by Start on a running session.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")
)

// Options configures a Session. Nil sources disable the matching watcher.
type Options struct {
	Credentials watcher.EntitySource
	Documents   watcher.EntitySource
	Kiosks      watcher.KioskSource

	Lookahead         time.Duration
	Interval          time.Duration
	HeartbeatTimeout  time.Duration
	HeartbeatInterval time.Duration

	// Now and TickChan are shared by every watcher.
	Now      func() time.Time
	TickChan <-chan time.Time
	NewID    func() string

	// Hooks, when set, observes every applied action.
	Hooks  *hooks.Runner
	Logger logging.Logger
}

// OptionsFromConfig builds options from the global configuration: roster
// files for the sources, watch durations and the hook runner.
func OptionsFromConfig() Options {
	opts := Options{
		Credentials:       roster.EntityFile{Path: config.Get("credentials_file", "")},
		Documents:         roster.EntityFile{Path: config.Get("documents_file", "")},
		Kiosks:            roster.KioskFile{Path: config.Get("kiosks_file", "")},
		Lookahead:         config.GetDuration("watch_lookahead", watcher.DefaultLookahead),
		Interval:          config.GetDuration("watch_interval", watcher.DefaultExpirationInterval),
		HeartbeatTimeout:  config.GetDuration("heartbeat_timeout", watcher.DefaultHeartbeatTimeout),
		HeartbeatInterval: config.GetDuration("heartbeat_interval", watcher.DefaultHeartbeatInterval),
	}
	if config.GetBool("hooks_enabled", true) {
		opts.Hooks = hooks.NewRunner(hooks.OptionsFromConfig())
	}
	return opts
}

// ScanResult collects the reports of one ScanOnce.
type ScanResult struct {
	Credentials *watcher.ScanReport
	Documents   *watcher.ScanReport
	Kiosks      *watcher.HeartbeatReport
}

// Alerted is the number of notifications raised by the scan.
func (r ScanResult) Alerted() int {
	n := 0
	if r.Credentials != nil {
		n += len(r.Credentials.Alerted)
	}
	if r.Documents != nil {
		n += len(r.Documents.Alerted)
	}
	if r.Kiosks != nil {
		n += len(r.Kiosks.Alerted)
	}
	return n
}

// Session is one feed with its bus, watchers and producer.
type Session struct {
	store    *store.Store
	bus      *bus.Bus
	producer *producer.Producer
	hooks    *hooks.Runner
	logger   logging.Logger

	credentials *watcher.ExpirationWatcher
	documents   *watcher.ExpirationWatcher
	kiosks      *watcher.HeartbeatWatcher

	mu          sync.Mutex
	handles     []*watcher.Handle
	unsubscribe func()
	closed      bool
}

// New builds a session. Nothing runs until Start.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobal()
	}

	s := &Session{store: store.New(), hooks: opts.Hooks, logger: logger.With("component", "session")}

	busOpts := []bus.Option{bus.WithLogger(logger)}
	if opts.Now != nil {
		busOpts = append(busOpts, bus.WithClock(opts.Now))
	}
	s.bus = bus.New(s.store, busOpts...)

	prodOpts := []producer.Option{producer.WithLogger(logger), producer.WithClock(opts.Now), producer.WithIDGenerator(opts.NewID)}
	s.producer = producer.New(s.bus, prodOpts...)

	if opts.Credentials != nil {
		s.credentials = watcher.NewExpirationWatcher(opts.Credentials, s.bus, expirationOptions("credentials", opts, logger))
	}
	if opts.Documents != nil {
		s.documents = watcher.NewExpirationWatcher(opts.Documents, s.bus, expirationOptions("documents", opts, logger))
	}
	if opts.Kiosks != nil {
		s.kiosks = watcher.NewHeartbeatWatcher(opts.Kiosks, s.bus, watcher.HeartbeatOptions{
			Timeout:  opts.HeartbeatTimeout,
			Interval: opts.HeartbeatInterval,
			Now:      opts.Now,
			TickChan: opts.TickChan,
			Logger:   logger,
			NewID:    opts.NewID,
		})
	}

	if s.hooks != nil {
		s.unsubscribe = s.bus.Subscribe(s.hooks.Observer())
	}
	return s
}

func expirationOptions(name string, opts Options, logger logging.Logger) watcher.ExpirationOptions {
	return watcher.ExpirationOptions{
		Name:      name,
		Lookahead: opts.Lookahead,
		Interval:  opts.Interval,
		Now:       opts.Now,
		TickChan:  opts.TickChan,
		Logger:    logger,
		NewID:     opts.NewID,
	}
}

// Watchers returns the configured watchers.
func (s *Session) Watchers() []watcher.Watcher {
	var out []watcher.Watcher
	if s.credentials != nil {
		out = append(out, s.credentials)
	}
	if s.documents != nil {
		out = append(out, s.documents)
	}
	if s.kiosks != nil {
		out = append(out, s.kiosks)
	}
	return out
}

// Start runs every watcher on its own goroutine until Close. Each watcher
// scans once immediately.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.handles != nil {
		return ErrAlreadyStarted
	}
	ws := s.Watchers()
	s.handles = make([]*watcher.Handle, 0, len(ws))
	for _, w := range ws {
		s.handles = append(s.handles, watcher.Start(ctx, w))
	}
	s.logger.Info("session started", "watchers", len(ws))
	return nil
}

// ScanOnce runs one scan of every watcher on the calling goroutine.
func (s *Session) ScanOnce(ctx context.Context) (ScanResult, error) {
	var result ScanResult
	var errs []error
	if s.credentials != nil {
		r, err := s.credentials.Scan(ctx)
		result.Credentials = &r
		errs = append(errs, err)
	}
	if s.documents != nil {
		r, err := s.documents.Scan(ctx)
		result.Documents = &r
		errs = append(errs, err)
	}
	if s.kiosks != nil {
		r, err := s.kiosks.Scan(ctx)
		result.Kiosks = &r
		errs = append(errs, err)
	}
	return result, errors.Join(errs...)
}

// Notifications returns the consumer handle for the feed.
func (s *Session) Notifications() *bus.Handle {
	return s.bus.Handle()
}

// Producer returns the producer dispatching into this session.
func (s *Session) Producer() *producer.Producer {
	return s.producer
}

// Bus returns the session bus.
func (s *Session) Bus() *bus.Bus {
	return s.bus
}

// Reset empties the feed and forgets every alerted condition, so the next
// scans alert again.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.bus.Dispatch(ctx, store.ClearAll{}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	for _, w := range s.Watchers() {
		w.Reset()
	}
	s.logger.Info("session reset")
	return nil
}

// Close stops the watchers and waits for them, empties the feed and waits for
// pending hooks. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	var errs []error
	for _, h := range handles {
		errs = append(errs, h.Stop())
	}

	// Teardown clears without running post-clear hooks.
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	errs = append(errs, s.bus.Dispatch(context.Background(), store.ClearAll{}))
	for _, w := range s.Watchers() {
		w.Reset()
	}
	if s.hooks != nil {
		s.hooks.Wait()
	}
	s.logger.Info("session closed")
	return errors.Join(errs...)
}
