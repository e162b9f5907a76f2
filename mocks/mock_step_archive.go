package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comex/internal/domain"
	"comex/internal/port"
)

// MockStepArchive is a mock implementation of port.StepArchive.
type MockStepArchive struct {
	mock.Mock
}

func (m *MockStepArchive) PutStep(ctx context.Context, docType domain.DocumentType, contentHash string, out port.StepOutput) error {
	args := m.Called(ctx, docType, contentHash, out)
	return args.Error(0)
}

func (m *MockStepArchive) GetStep(ctx context.Context, docType domain.DocumentType, contentHash string, ordinal int) (port.StepOutput, error) {
	args := m.Called(ctx, docType, contentHash, ordinal)
	return args.Get(0).(port.StepOutput), args.Error(1)
}
