package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comex/internal/port"
)

// MockNCMRepo is a mock implementation of port.NCMRepository.
type MockNCMRepo struct {
	mock.Mock
}

func (m *MockNCMRepo) LoadAll(ctx context.Context) ([]port.NCMEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.NCMEntry), args.Error(1)
}
