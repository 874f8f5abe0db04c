// Package retry provides exponential-backoff retries and a circuit breaker
// for flaky external operations such as network-bound package installs.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// Config holds retry settings.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter is the +/- fraction applied to each delay. Zero disables it.
	Jitter float64
}

// DefaultConfig returns the default retry settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  constants.MaxRetryAttempts,
		InitialDelay: constants.InitialBackoff,
		MaxDelay:     constants.MaxBackoff,
		Multiplier:   constants.BackoffMultiplier,
		Jitter:       constants.BackoffJitter,
	}
}

// Operation is a unit of work that can be attempted more than once.
type Operation[R any] interface {
	// Attempt performs one attempt. attempt starts at 1.
	Attempt(ctx context.Context, attempt int) (R, error)

	// ShouldRetry reports whether err is worth another attempt.
	ShouldRetry(err error) bool

	// OnRetryWait is called before sleeping ahead of the next attempt.
	OnRetryWait(attempt int, delay time.Duration, err error)
}

// ExhaustedError is returned when an operation never succeeded.
// It unwraps to ErrRetryExhausted and to the last attempt's error.
type ExhaustedError struct {
	Attempts     int
	LastErr      error
	NonRetryable bool
}

func (e *ExhaustedError) Error() string {
	if e.NonRetryable {
		return fmt.Sprintf("Non-retryable error: %v", e.LastErr)
	}
	return fmt.Sprintf("Failed after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap exposes the kind and the last error to errors.Is and errors.As.
func (e *ExhaustedError) Unwrap() []error {
	return []error{svperrors.ErrRetryExhausted, e.LastErr}
}

// Execute runs op until it succeeds, its error is not retryable, the attempts
// run out or ctx is cancelled. Cancellation while waiting returns ctx.Err().
func Execute[R any](ctx context.Context, cfg Config, op Operation[R], logger zerolog.Logger) (R, int, error) {
	var (
		zero    R
		lastErr error
	)

	maxAttempts := max(cfg.MaxAttempts, 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := op.Attempt(ctx, attempt)
		if err == nil {
			return res, attempt, nil
		}
		lastErr = err

		if !op.ShouldRetry(err) {
			return zero, attempt, &ExhaustedError{Attempts: attempt, LastErr: err, NonRetryable: true}
		}
		if attempt == maxAttempts {
			break
		}

		delay := Backoff(cfg, attempt)
		logger.Debug().
			Int("attempt", attempt).
			Dur("delay", delay).
			Err(err).
			Msg("attempt failed, retrying")
		op.OnRetryWait(attempt, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, maxAttempts, &ExhaustedError{Attempts: maxAttempts, LastErr: lastErr}
}

// Backoff returns the delay before attempt+1: InitialDelay*Multiplier^(attempt-1),
// capped at MaxDelay, with +/- Jitter applied and never negative.
func Backoff(cfg Config, attempt int) time.Duration {
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := float64(cfg.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter > 0 {
		delay += delay * cfg.Jitter * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto randomness
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// SimpleOperation adapts plain functions to Operation.
type SimpleOperation[R any] struct {
	AttemptFunc func(ctx context.Context, attempt int) (R, error)
	// ShouldRetryFunc defaults to retrying every error.
	ShouldRetryFunc func(err error) bool
	OnRetryWaitFunc func(attempt int, delay time.Duration, err error)
}

// Attempt implements Operation.
func (s *SimpleOperation[R]) Attempt(ctx context.Context, attempt int) (R, error) {
	return s.AttemptFunc(ctx, attempt)
}

// ShouldRetry implements Operation.
func (s *SimpleOperation[R]) ShouldRetry(err error) bool {
	if s.ShouldRetryFunc == nil {
		return true
	}
	return s.ShouldRetryFunc(err)
}

// OnRetryWait implements Operation.
func (s *SimpleOperation[R]) OnRetryWait(attempt int, delay time.Duration, err error) {
	if s.OnRetryWaitFunc != nil {
		s.OnRetryWaitFunc(attempt, delay, err)
	}
}

// Compile-time interface check.
var _ Operation[any] = (*SimpleOperation[any])(nil)
