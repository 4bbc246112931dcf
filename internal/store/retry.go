package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

const (
	DEFAULT_MAX_RETRIES      = 3
	DEFAULT_INITIAL_INTERVAL = 2 * time.Second
	DEFAULT_MULTIPLIER       = 2.0
)

// RetryPolicy retries a whole operation when it fails with a connection-lost error.
// The n-th retry waits InitialInterval * Multiplier^(n-1); the defaults give 2^n seconds.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
}

// NewRetryPolicy builds a policy from configuration, filling zero values with defaults
func NewRetryPolicy(cfg config.RetryConfig) RetryPolicy {
	p := RetryPolicy{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: cfg.InitialInterval,
		Multiplier:      cfg.Multiplier,
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = DEFAULT_INITIAL_INTERVAL
	}
	if p.Multiplier < 1 {
		p.Multiplier = DEFAULT_MULTIPLIER
	}
	return p
}

// DefaultRetryPolicy returns the policy with default settings
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      DEFAULT_MAX_RETRIES,
		InitialInterval: DEFAULT_INITIAL_INTERVAL,
		Multiplier:      DEFAULT_MULTIPLIER,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(float64(p.InitialInterval) * math.Pow(p.Multiplier, float64(max(p.MaxRetries, 1))))
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx) //nolint:gosec,G115 // MaxRetries is never negative
}

// Do runs fn, retrying only connection-lost failures. Waiting honors ctx cancellation.
// Any other error is returned immediately.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var attempt int
	op := func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsConnectionLost(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		attempt++
		logger.WarnCtx(ctx, "Connection lost, retrying",
			zap.String("operation", operation),
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", wait),
		)
	}

	if err := backoff.RetryNotify(op, p.backOff(ctx), notify); err != nil {
		if attempt > 0 && IsConnectionLost(err) {
			return fmt.Errorf("%s failed after %d retries: %w", operation, attempt, err)
		}
		return err
	}

	if attempt > 0 {
		logger.InfoCtx(ctx, "Operation succeeded after retries",
			zap.String("operation", operation),
			zap.Int("total_attempts", attempt+1),
		)
	}

	return nil
}
