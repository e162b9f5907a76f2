package extractor_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comex/internal/extractor"
	"comex/mocks"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	next := new(mocks.MockStepExtractor)
	next.On("ExtractStep", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down")).Times(2)

	b := extractor.NewBreaker(next, 2, time.Minute, nil)
	for i := 0; i < 2; i++ {
		_, err := b.ExtractStep(context.Background(), stepInput())
		assert.ErrorContains(t, err, "upstream down")
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.ExtractStep(context.Background(), stepInput())
	assert.True(t, extractor.IsCircuitOpen(err))
	next.AssertNumberOfCalls(t, "ExtractStep", 2)
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	next := new(mocks.MockStepExtractor)
	next.On("ExtractStep", mock.Anything, mock.Anything).Return(json.RawMessage(`{"ok":true}`), nil)

	b := extractor.NewBreaker(next, 0, 0, nil)
	out, err := b.ExtractStep(context.Background(), stepInput())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	next := new(mocks.MockStepExtractor)
	next.On("ExtractStep", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	b := extractor.NewBreaker(next, 1, time.Minute, nil)
	_, err := b.ExtractStep(context.Background(), stepInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
