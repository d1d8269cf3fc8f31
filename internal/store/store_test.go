package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatchAndRead(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.UnreadCount())

	a := notif("1")
	a.Kind = domain.KindAlert
	a.Priority = domain.PriorityHigh
	a.Metadata = map[string]string{domain.MetaEntityID: "prov-1"}
	_, err := s.Dispatch(Add{Notification: a})
	require.NoError(t, err)
	_, err = s.Dispatch(Add{Notification: notif("2")})
	require.NoError(t, err)

	assert.Equal(t, 2, s.UnreadCount())
	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "prov-1", got.Meta(domain.MetaEntityID))

	_, ok = s.Get("missing")
	assert.False(t, ok)

	alerts := s.List(domain.Filter{Kind: domain.KindAlert})
	require.Len(t, alerts, 1)
	assert.Equal(t, "1", alerts[0].ID)
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	s := New()
	n := notif("1")
	n.Metadata = map[string]string{"k": "v"}
	_, err := s.Dispatch(Add{Notification: n})
	require.NoError(t, err)

	snap := s.State()
	snap.Notifications[0].Read = true
	snap.Notifications[0].Metadata["k"] = "tampered"
	snap.UnreadCount = 99

	n.Metadata["k"] = "caller"

	fresh := s.State()
	assert.False(t, fresh.Notifications[0].Read)
	assert.Equal(t, "v", fresh.Notifications[0].Metadata["k"])
	assert.Equal(t, 1, fresh.UnreadCount)
}

func TestStoreDispatchErrorKeepsState(t *testing.T) {
	s := New()
	_, err := s.Dispatch(Add{Notification: notif("1")})
	require.NoError(t, err)

	snap, err := s.Dispatch(Add{Notification: notif("1")})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, []string{"1"}, snap.IDs())
	assert.Equal(t, 1, s.UnreadCount())
}

func TestStoreConcurrentDispatchKeepsInvariant(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				_, _ = s.Dispatch(Add{Notification: notif(id)})
				if i%3 == 0 {
					_, _ = s.Dispatch(MarkRead{ID: id})
				}
				if i%7 == 0 {
					_, _ = s.Dispatch(Remove{ID: id})
				}
			}
		}(w)
	}
	wg.Wait()

	state := s.State()
	assert.True(t, state.Consistent())
	assert.Equal(t, domain.CountUnread(state.Notifications), s.UnreadCount())
}
