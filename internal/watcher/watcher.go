// Package watcher runs periodic scans over read-only entity snapshots and
// dispatches alerts for conditions that crossed a time threshold.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/dedup"
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/google/uuid"
)

// EntitySource provides a snapshot of entities with expiring fields.
type EntitySource interface {
	Entities(ctx context.Context) ([]domain.WatchedEntity, error)
}

// EntitySourceFunc adapts a function to EntitySource.
type EntitySourceFunc func(ctx context.Context) ([]domain.WatchedEntity, error)

// Entities calls f.
func (f EntitySourceFunc) Entities(ctx context.Context) ([]domain.WatchedEntity, error) {
	return f(ctx)
}

// KioskSource provides a snapshot of kiosks and their last heartbeat.
type KioskSource interface {
	Kiosks(ctx context.Context) ([]domain.Kiosk, error)
}

// KioskSourceFunc adapts a function to KioskSource.
type KioskSourceFunc func(ctx context.Context) ([]domain.Kiosk, error)

// Kiosks calls f.
func (f KioskSourceFunc) Kiosks(ctx context.Context) ([]domain.Kiosk, error) {
	return f(ctx)
}

// Watcher is a periodic scanner.
type Watcher interface {
	// Name identifies the watcher in logs.
	Name() string
	// Run scans once, then once per interval, until ctx is done.
	Run(ctx context.Context) error
	// Reset forgets which conditions were already alerted.
	Reset()
}

func newID() string {
	return uuid.NewString()
}

// forgetMissing releases the keys of entities absent from the latest
// snapshot, so an entity that comes back is alerted again. It returns the
// released entity ids in order.
func forgetMissing(g *dedup.Guard, present map[string]bool) []string {
	var gone []string
	released := make(map[string]bool)
	for _, k := range g.Keys() {
		if present[k.EntityID] || released[k.EntityID] {
			continue
		}
		released[k.EntityID] = true
		gone = append(gone, k.EntityID)
	}
	for _, id := range gone {
		g.ReleaseEntity(id)
	}
	return gone
}

// tickChan returns the injected channel, or a ticker for interval with its stop func.
func tickChan(injected <-chan time.Time, interval time.Duration) (<-chan time.Time, func()) {
	if injected != nil {
		return injected, func() {}
	}
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}

// loop calls scan immediately and on every tick until ctx is done.
// A scan in progress always runs to completion.
func loop(ctx context.Context, ticks <-chan time.Time, scan func(context.Context)) error {
	scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			// A tick and cancellation can be ready together; cancellation wins.
			if ctx.Err() != nil {
				return nil
			}
			scan(ctx)
		}
	}
}

// Handle owns a running watcher goroutine.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// Start runs w on its own goroutine. The returned handle must be stopped to
// release the timer.
func Start(ctx context.Context, w Watcher) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.err = w.Run(ctx)
	}()
	return h
}

// Stop cancels future scans and waits for the loop to exit. It is safe to
// call more than once.
func (h *Handle) Stop() error {
	h.once.Do(h.cancel)
	<-h.done
	return h.err
}

// Done is closed when the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
