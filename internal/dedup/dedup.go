// Package dedup remembers which (entity, field) pairs already produced an alert
// so repeated scans do not raise the same alert twice.
package dedup

import (
	"sort"
	"strings"
	"sync"
)

// unit separator, never present in ids
const keySeparator = "\x1f"

// Key identifies one alertable field of one entity. Heartbeat alerts use an
// empty FieldID.
type Key struct {
	EntityID string
	FieldID  string
}

// String renders the key for logging.
func (k Key) String() string {
	if k.FieldID == "" {
		return k.EntityID
	}
	return k.EntityID + "/" + k.FieldID
}

func (k Key) encode() string {
	return k.EntityID + keySeparator + k.FieldID
}

func decode(s string) Key {
	entity, field, _ := strings.Cut(s, keySeparator)
	return Key{EntityID: entity, FieldID: field}
}

// Guard is a concurrency-safe set of alerted keys. The zero value is not usable; call New.
type Guard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New returns an empty Guard.
func New() *Guard {
	return &Guard{seen: make(map[string]struct{})}
}

// Mark records key and reports whether it was newly added. Checking and
// marking happen under one lock so two scans cannot both win.
func (g *Guard) Mark(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	enc := key.encode()
	if _, ok := g.seen[enc]; ok {
		return false
	}
	g.seen[enc] = struct{}{}
	return true
}

// Release forgets key so a later scan may alert on it again. It reports
// whether the key was present.
func (g *Guard) Release(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	enc := key.encode()
	if _, ok := g.seen[enc]; !ok {
		return false
	}
	delete(g.seen, enc)
	return true
}

// ReleaseEntity forgets every key of one entity and returns how many were removed.
func (g *Guard) ReleaseEntity(entityID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	prefix := entityID + keySeparator
	n := 0
	for enc := range g.seen {
		if strings.HasPrefix(enc, prefix) {
			delete(g.seen, enc)
			n++
		}
	}
	return n
}

// Reset forgets all keys.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.seen)
}

// Len returns the number of marked keys.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// Keys returns the marked keys sorted by entity then field.
func (g *Guard) Keys() []Key {
	g.mu.Lock()
	encoded := make([]string, 0, len(g.seen))
	for enc := range g.seen {
		encoded = append(encoded, enc)
	}
	g.mu.Unlock()

	sort.Strings(encoded)
	keys := make([]Key, len(encoded))
	for i, enc := range encoded {
		keys[i] = decode(enc)
	}
	return keys
}
