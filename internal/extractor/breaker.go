package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"comex/internal/port"
)

// Breaker guards a StepExtractor with a circuit breaker. Consecutive failures open the circuit; calls
// made while it is open fail fast with gobreaker.ErrOpenState.
type Breaker struct {
	next port.StepExtractor
	cb   *gobreaker.CircuitBreaker[json.RawMessage]
}

var _ port.StepExtractor = (*Breaker)(nil)

// NewBreaker wraps next. maxFailures <= 0 defaults to 5; timeout <= 0 defaults to 30s.
func NewBreaker(next port.StepExtractor, maxFailures uint32, timeout time.Duration, log *zap.Logger) *Breaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "extractor",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker[json.RawMessage](settings)}
}

func (b *Breaker) ExtractStep(ctx context.Context, in port.ExtractInput) (json.RawMessage, error) {
	return b.cb.Execute(func() (json.RawMessage, error) {
		return b.next.ExtractStep(ctx, in)
	})
}

// State reports the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// IsCircuitOpen reports whether err was produced by an open or saturated circuit.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
