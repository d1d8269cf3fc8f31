// Package bus is the single entry point for changing the notification feed.
//
// A Bus applies actions to a store one at a time and tells observers about
// every applied action in the order it was applied.
package bus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/logging"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

// Dispatcher accepts actions. Producers and watchers only ever see this.
type Dispatcher interface {
	Dispatch(ctx context.Context, action store.Action) error
}

// Event describes one applied action.
type Event struct {
	Action store.Action
	Prev   store.State
	Next   store.State
}

// Observer is called after an action has been applied. Observers run while the
// bus is locked and must not dispatch on the same goroutine.
type Observer func(ctx context.Context, ev Event)

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the clock used to timestamp decoded notifications.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

type subscription struct {
	id int
	fn Observer
}

// Bus serializes dispatches against a store.
type Bus struct {
	mu     sync.Mutex
	store  *store.Store
	logger logging.Logger
	now    func() time.Time

	subMu  sync.RWMutex
	subs   []subscription
	nextID int
}

// New creates a bus over s. A nil store gets a fresh empty one.
func New(s *store.Store, opts ...Option) *Bus {
	if s == nil {
		s = store.New()
	}
	b := &Bus{
		store:  s,
		logger: logging.GetGlobal(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "bus")
	return b
}

// Dispatch applies action and notifies observers. Rejected actions leave the
// state unchanged, are logged, and their error is returned. A nil action is ignored.
func (b *Bus) Dispatch(ctx context.Context, action store.Action) error {
	if action == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev, next, err := b.store.Apply(action)
	if err != nil {
		b.logger.Warn("action rejected", "action", action.Name(), "error", err)
		return err
	}
	b.logger.Debug("action applied", "action", action.Name(), "unread", next.UnreadCount, "total", next.Len())

	ev := Event{Action: action, Prev: prev, Next: next}
	for _, sub := range b.snapshotSubs() {
		b.notify(ctx, sub, ev)
	}
	return nil
}

// DispatchRaw decodes a JSON action and dispatches it. Actions that cannot be
// decoded are logged and dropped with a nil error; the state is unchanged.
func (b *Bus) DispatchRaw(ctx context.Context, data []byte) error {
	action, err := DecodeAction(data, b.now())
	if err != nil {
		if errors.Is(err, ErrUnknownAction) || errors.Is(err, ErrInvalidPayload) {
			b.logger.Warn("malformed action ignored", "error", err)
			return nil
		}
		return err
	}
	return b.Dispatch(ctx, action)
}

// notify runs one observer, containing any panic so the remaining observers
// and the caller are unaffected.
func (b *Bus) notify(ctx context.Context, sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("observer panicked", "observer", sub.id, "action", ev.Action.Name(), "panic", r)
		}
	}()
	sub.fn(ctx, ev)
}

func (b *Bus) snapshotSubs() []subscription {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	out := make([]subscription, len(b.subs))
	copy(out, b.subs)
	return out
}

// Subscribe registers an observer and returns a func that removes it.
// Observers are called in subscription order. Unsubscribe is idempotent.
func (b *Bus) Subscribe(fn Observer) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	b.subMu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.subMu.Lock()
			defer b.subMu.Unlock()
			for i, sub := range b.subs {
				if sub.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// State returns a snapshot of the current state.
func (b *Bus) State() store.State {
	return b.store.State()
}

// Handle returns the accessor handed to consumers.
func (b *Bus) Handle() *Handle {
	return &Handle{bus: b}
}
