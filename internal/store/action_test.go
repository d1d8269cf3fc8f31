package store

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notif(id string) domain.Notification {
	return domain.Notification{
		ID:        id,
		Kind:      domain.KindMessage,
		Title:     "Notification " + id,
		CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		Priority:  domain.PriorityMedium,
	}
}

func mustReduce(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = Reduce(s, a)
		require.NoError(t, err, "action %s", a.Name())
		require.True(t, s.Consistent(), "unread count drifted after %s", a.Name())
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func TestAddThenMarkRead(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")})
	assert.Equal(t, 1, s.UnreadCount)

	s = mustReduce(t, s, MarkRead{ID: "1"})
	assert.Equal(t, 0, s.UnreadCount)
	assert.True(t, s.Notifications[0].Read)
}

func TestAddIsNewestFirst(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("A")}, Add{Notification: notif("B")}, Add{Notification: notif("C")})
	assert.Equal(t, []string{"C", "B", "A"}, s.IDs())
}

func TestAddForcesUnread(t *testing.T) {
	n := notif("1")
	n.Read = true
	s := mustReduce(t, Empty(), Add{Notification: n})
	assert.False(t, s.Notifications[0].Read)
	assert.Equal(t, 1, s.UnreadCount)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")}, MarkRead{ID: "1"})

	next, err := Reduce(s, Add{Notification: notif("1")})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, s, next)
	assert.Equal(t, 0, next.UnreadCount)
	assert.Len(t, next.Notifications, 1)
}

func TestAddRejectsInvalidNotification(t *testing.T) {
	bad := notif("")
	_, err := Reduce(Empty(), Add{Notification: bad})
	require.ErrorIs(t, err, ErrInvalidNotification)

	bad = notif("x")
	bad.Priority = "urgent"
	_, err = Reduce(Empty(), Add{Notification: bad})
	require.ErrorIs(t, err, ErrInvalidNotification)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Add{Notification: notif("2")})
	once := mustReduce(t, s, MarkRead{ID: "1"})
	twice := mustReduce(t, once, MarkRead{ID: "1"})

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, twice.UnreadCount)
}

func TestMarkAllRead(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Add{Notification: notif("2")}, MarkAllRead{})
	assert.Equal(t, 0, s.UnreadCount)
	assert.Equal(t, []string{"2", "1"}, s.IDs())
	for _, n := range s.Notifications {
		assert.True(t, n.Read)
	}
}

func TestRemove(t *testing.T) {
	t.Run("unread notification", func(t *testing.T) {
		s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Remove{ID: "1"})
		assert.Equal(t, 0, s.UnreadCount)
		assert.Empty(t, s.Notifications)
	})

	t.Run("read notification keeps count", func(t *testing.T) {
		s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Add{Notification: notif("2")}, MarkRead{ID: "1"}, Remove{ID: "1"})
		assert.Equal(t, 1, s.UnreadCount)
		assert.Equal(t, []string{"2"}, s.IDs())
	})

	t.Run("middle removal preserves order", func(t *testing.T) {
		s := mustReduce(t, Empty(),
			Add{Notification: notif("1")}, Add{Notification: notif("2")}, Add{Notification: notif("3")},
			Remove{ID: "2"})
		assert.Equal(t, []string{"3", "1"}, s.IDs())
	})
}

func TestMissingTargetsAreNoOps(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Add{Notification: notif("2")}, MarkRead{ID: "2"})

	for _, a := range []Action{
		Remove{ID: "nonexistent"},
		MarkRead{ID: "nonexistent"},
		Update{ID: "nonexistent", Patch: Patch{Title: ptr("x"), Read: ptr(true)}},
	} {
		next, err := Reduce(s, a)
		require.NoError(t, err)
		assert.Equal(t, s, next, a.Name())
	}
}

func TestUpdate(t *testing.T) {
	base := notif("1")
	base.Metadata = map[string]string{"requestId": "r-9", "room": "op-2"}
	s := mustReduce(t, Empty(), Add{Notification: base})

	t.Run("merges fields", func(t *testing.T) {
		next := mustReduce(t, s, Update{ID: "1", Patch: Patch{
			Title:    ptr("Reschedule accepted"),
			Status:   ptr(domain.StatusAccepted),
			Priority: ptr(domain.PriorityLow),
			Metadata: map[string]string{"decidedBy": "frontdesk", "room": ""},
		}})
		n := next.Notifications[0]
		assert.Equal(t, "Reschedule accepted", n.Title)
		assert.Equal(t, domain.StatusAccepted, n.Status)
		assert.Equal(t, domain.PriorityLow, n.Priority)
		assert.Equal(t, map[string]string{"requestId": "r-9", "decidedBy": "frontdesk"}, n.Metadata)
		assert.Equal(t, "op-2", s.Notifications[0].Metadata["room"], "input state must not change")
	})

	t.Run("read flips are recounted", func(t *testing.T) {
		next := mustReduce(t, s, Update{ID: "1", Patch: Patch{Read: ptr(true)}})
		assert.Equal(t, 0, next.UnreadCount)
		next = mustReduce(t, next, Update{ID: "1", Patch: Patch{Read: ptr(false)}})
		assert.Equal(t, 1, next.UnreadCount)
		next = mustReduce(t, next, Update{ID: "1", Patch: Patch{Read: ptr(false)}})
		assert.Equal(t, 1, next.UnreadCount)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := Reduce(s, Update{ID: "1", Patch: Patch{Priority: ptr(domain.Priority("urgent"))}})
		require.ErrorIs(t, err, ErrInvalidPatch)
		_, err = Reduce(s, Update{ID: "1", Patch: Patch{Status: ptr(domain.Status("maybe"))}})
		require.ErrorIs(t, err, ErrInvalidPatch)
		_, err = Reduce(s, Update{ID: "1", Patch: Patch{Title: ptr("")}})
		require.ErrorIs(t, err, ErrInvalidPatch)
		next, err := Reduce(s, Update{ID: "1", Patch: Patch{Title: ptr("  \t")}})
		require.ErrorIs(t, err, ErrInvalidPatch, "blank titles are rejected like on add")
		assert.Equal(t, s, next)
	})
}

func TestClearAll(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Add{Notification: notif("2")}, ClearAll{})
	assert.Equal(t, Empty(), s)
}

func TestReduceNilAndMalformedActions(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")})

	next, err := Reduce(s, nil)
	require.NoError(t, err)
	assert.Equal(t, s, next)

	var typedNil *Remove
	next, err = Reduce(s, typedNil)
	require.ErrorIs(t, err, ErrMalformedAction)
	assert.Equal(t, s, next)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := mustReduce(t, Empty(), Add{Notification: notif("1")}, Add{Notification: notif("2")})
	snapshot := s.Clone()

	_ = mustReduce(t, s, MarkRead{ID: "1"}, MarkAllRead{}, Remove{ID: "2"}, ClearAll{})
	assert.Equal(t, snapshot, s)
}

func TestUnreadInvariantHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := Empty()
	nextID := 0

	randomExisting := func() string {
		if len(s.Notifications) == 0 || rng.Intn(5) == 0 {
			return "missing"
		}
		return s.Notifications[rng.Intn(len(s.Notifications))].ID
	}

	for step := 0; step < 2000; step++ {
		var a Action
		switch rng.Intn(8) {
		case 0, 1, 2:
			nextID++
			a = Add{Notification: notif(fmt.Sprintf("n%d", nextID))}
		case 3:
			a = MarkRead{ID: randomExisting()}
		case 4:
			a = Update{ID: randomExisting(), Patch: Patch{Read: ptr(rng.Intn(2) == 0)}}
		case 5:
			a = Remove{ID: randomExisting()}
		case 6:
			a = MarkAllRead{}
		case 7:
			if rng.Intn(10) == 0 {
				a = ClearAll{}
			} else {
				a = Add{Notification: notif(randomExisting())}
			}
		}
		next, err := Reduce(s, a)
		if err != nil {
			require.ErrorIs(t, err, ErrDuplicateID)
			require.Equal(t, s, next)
		}
		s = next
		require.True(t, s.Consistent(), "step %d (%s): unread=%d actual=%d", step, a.Name(), s.UnreadCount, domain.CountUnread(s.Notifications))
	}
}
