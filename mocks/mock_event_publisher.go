package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comex/internal/port"
)

// MockEventPublisher is a mock implementation of port.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishValidated(ctx context.Context, event port.DocumentValidatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
