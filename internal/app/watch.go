// Package app holds the use-cases behind the CLI commands.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/practice-alerts/internal/bus"
	"github.com/cristianoliveira/practice-alerts/internal/colors"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/format"
	"github.com/cristianoliveira/practice-alerts/internal/search"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// WatchSession is the part of a session the watch use-case drives.
type WatchSession interface {
	Start(ctx context.Context) error
	Notifications() *bus.Handle
	Close() error
}

// WatchOptions holds all parameters for watch behavior.
type WatchOptions struct {
	Session WatchSession
	Filter  domain.Filter
	// Search narrows printed notifications with SearchProvider (substring by default).
	Search         string
	SearchProvider search.Provider
	Output         io.Writer
	// Signals replaces SIGINT/SIGTERM handling when set.
	Signals <-chan os.Signal
	// Started, when set, is closed once the session is running.
	Started chan<- struct{}
	// Record, when set, receives every applied action as one JSON line in
	// the format replay reads, filters aside.
	Record io.Writer
}

// WatchUseCase runs a session and prints notifications as they land.
type WatchUseCase struct{}

// NewWatchUseCase creates a watch use-case.
func NewWatchUseCase() *WatchUseCase {
	return &WatchUseCase{}
}

// Execute starts the session and prints every added notification matching
// the filter until interruption or cancellation. The session is closed on return.
func (u *WatchUseCase) Execute(ctx context.Context, opts WatchOptions) error {
	if opts.Session == nil {
		return fmt.Errorf("watch: session dependency cannot be nil")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	sigChan := opts.Signals
	if sigChan == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)
		sigChan = ch
	}

	if opts.Search != "" && opts.SearchProvider == nil {
		opts.SearchProvider = search.NewSubstringProvider(search.WithCaseInsensitive(true))
	}

	added := make(chan domain.Notification, 64)
	done := make(chan struct{})
	unsubscribe := opts.Session.Notifications().Subscribe(func(_ context.Context, ev bus.Event) {
		if opts.Record != nil {
			record(opts.Record, ev.Action)
		}
		if _, ok := ev.Action.(store.Add); !ok || ev.Next.Len() == 0 {
			return
		}
		// The stored copy, newest first.
		n := ev.Next.Notifications[0]
		if !n.MatchesFilter(opts.Filter) {
			return
		}
		if opts.Search != "" && !opts.SearchProvider.Match(n, opts.Search) {
			return
		}
		select {
		case added <- n:
		case <-done:
		}
	})

	// done is closed before Close so an in-flight scan never blocks on added.
	defer func() {
		close(done)
		unsubscribe()
		if err := opts.Session.Close(); err != nil {
			colors.Warning(fmt.Sprintf("watch: closing session: %v", err))
		}
	}()

	colors.Info("Watching notifications (Ctrl+C to stop)...")
	if err := opts.Session.Start(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if opts.Started != nil {
		close(opts.Started)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigChan:
			_, _ = fmt.Fprintf(opts.Output, "\nReceived signal %v, stopping...\n", sig)
			return nil
		case n := <-added:
			_, _ = fmt.Fprintln(opts.Output, format.FormatLine(n))
		}
	}
}

func record(w io.Writer, action store.Action) {
	line, err := bus.EncodeAction(action)
	if err != nil {
		colors.Warning(fmt.Sprintf("watch: record %s: %v", action.Name(), err))
		return
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		colors.Warning(fmt.Sprintf("watch: record %s: %v", action.Name(), err))
	}
}
