package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"comex/internal/port"
)

// backoffState tracks rate-limit backoff for a single extractor.
type backoffState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = healthy
}

func (s *backoffState) activeUntil(now time.Time) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resetAt, !s.resetAt.IsZero() && now.Before(s.resetAt)
}

func (s *backoffState) hold(resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetAt = resetAt
}

// Fallback tries extractors in order, skipping those backing off after a rate limit.
type Fallback struct {
	extractors []port.StepExtractor
	backoffs   []*backoffState
	names      []string
	log        *zap.Logger
	now        func() time.Time
}

var _ port.StepExtractor = (*Fallback)(nil)

// NewFallback creates a Fallback from an ordered list of extractors and their names.
func NewFallback(extractors []port.StepExtractor, names []string, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	backoffs := make([]*backoffState, len(extractors))
	for i := range backoffs {
		backoffs[i] = &backoffState{}
	}
	return &Fallback{extractors: extractors, backoffs: backoffs, names: names, log: log, now: time.Now}
}

func (f *Fallback) ExtractStep(ctx context.Context, in port.ExtractInput) (json.RawMessage, error) {
	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, x := range f.extractors {
		if resetAt, active := f.backoffs[i].activeUntil(now); active {
			f.log.Debug("skipping extractor in backoff",
				zap.String("extractor", f.names[i]), zap.Time("until", resetAt))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := x.ExtractStep(ctx, in)
		if err == nil {
			return out, nil
		}

		f.log.Warn("extractor failed",
			zap.String("extractor", f.names[i]),
			zap.String("document_type", string(in.DocumentType)),
			zap.Int("step", in.Step.Ordinal),
			zap.Error(err))
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.backoffs[i].hold(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all extractors rate limited"), int(retryAfter.Seconds()))
	}
	return nil, fmt.Errorf("all extractors failed: %w", lastErr)
}
