package search

import (
	"github.com/cristianoliveira/practice-alerts/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Match provides a mock function with given fields: n, query.
func (m *MockProvider) Match(n domain.Notification, query string) bool {
	return m.Called(n, query).Bool(0)
}

// Name provides a mock function.
func (m *MockProvider) Name() string {
	return m.Called().String(0)
}
