package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"comex/internal/port"
)

// MockStepExtractor is a mock implementation of port.StepExtractor.
type MockStepExtractor struct {
	mock.Mock
}

func (m *MockStepExtractor) ExtractStep(ctx context.Context, input port.ExtractInput) (json.RawMessage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
