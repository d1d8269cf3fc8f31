package watcher

import (
	"context"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/cristianoliveira/practice-alerts/internal/store"
	"github.com/stretchr/testify/mock"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, action store.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *mockDispatcher) added() []domain.Notification {
	var out []domain.Notification
	for _, call := range m.Calls {
		if add, ok := call.Arguments.Get(1).(store.Add); ok {
			out = append(out, add.Notification)
		}
	}
	return out
}

type mockEntitySource struct {
	mock.Mock
}

func (m *mockEntitySource) Entities(ctx context.Context) ([]domain.WatchedEntity, error) {
	args := m.Called(ctx)
	entities, _ := args.Get(0).([]domain.WatchedEntity)
	return entities, args.Error(1)
}
