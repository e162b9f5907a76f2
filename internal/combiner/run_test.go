package combiner_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/mocks"
)

func TestRun_PassesPriorOutput(t *testing.T) {
	ext := new(mocks.MockStepExtractor)
	steps := []domain.ProcessingStep{
		{Ordinal: 2, Name: "items", ExpectsPriorOutput: true, Target: domain.SectionItems},
		{Ordinal: 1, Name: "header", Target: domain.SectionHeader},
	}
	first := json.RawMessage(`{"invoice_number":"A"}`)
	second := json.RawMessage(`[{"line_number":1}]`)

	ext.On("ExtractStep", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Step.Ordinal == 1 && in.PriorOutput == nil && in.Prompt == "p1"
	})).Return(first, nil).Once()
	ext.On("ExtractStep", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Step.Ordinal == 2 && string(in.PriorOutput) == string(first) && in.Prompt == "p2"
	})).Return(second, nil).Once()

	plan := combiner.Plan{
		DocumentType: domain.DocumentTypeCommercialInvoice,
		Steps:        steps,
		Prompt: func(n int, _ json.RawMessage) (string, error) {
			return map[int]string{1: "p1", 2: "p2"}[n], nil
		},
	}
	outputs, err := combiner.Run(context.Background(), ext, plan, port.FileInput{Name: "a.pdf", Content: []byte("x")})
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, 1, outputs[0].Ordinal)
	assert.Equal(t, 2, outputs[1].Ordinal)
	ext.AssertExpectations(t)
}

func TestRun_StopsOnExtractorError(t *testing.T) {
	ext := new(mocks.MockStepExtractor)
	boom := errors.New("boom")
	ext.On("ExtractStep", mock.Anything, mock.Anything).Return(nil, boom).Once()

	plan := combiner.Plan{Steps: []domain.ProcessingStep{{Ordinal: 1}, {Ordinal: 2}}}
	outputs, err := combiner.Run(context.Background(), ext, plan, port.FileInput{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, outputs)
	ext.AssertNumberOfCalls(t, "ExtractStep", 1)
}

func TestRun_NoExtractor(t *testing.T) {
	_, err := combiner.Run(context.Background(), nil, combiner.Plan{}, port.FileInput{})
	assert.ErrorIs(t, err, domain.ErrNoExtractor)
}
