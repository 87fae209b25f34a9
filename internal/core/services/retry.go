package services

import (
	"context"
	"time"
)

// RetryPolicy is a bounded exponential backoff applied to calls against
// external services. Tests inject a sleeper to run deterministically.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait after the first failure; it doubles after
	// each subsequent failure.
	BaseDelay time.Duration

	// Sleep waits for the given duration or until the context is done.
	// Nil uses a timer-based default.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultEmbeddingRetry is the retry policy for embedding calls.
var DefaultEmbeddingRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}

// DefaultGenerationRetry is the retry policy for answer generation.
// Two retries after the initial attempt.
var DefaultGenerationRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

// Do runs op until it succeeds, attempts are exhausted, or the context
// is cancelled. The last error is returned unwrapped so callers can
// match sentinel errors.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepTimer
	}

	var err error
	delay := p.BaseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if serr := sleep(ctx, delay); serr != nil {
			return err
		}
		delay *= 2
	}
	return err
}

func sleepTimer(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
