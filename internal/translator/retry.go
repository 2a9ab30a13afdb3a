package translator

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
)

// RetryPolicy bounds how often and how patiently a batch is retried.
type RetryPolicy struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinBackoff  time.Duration `mapstructure:"min_backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
	Factor      float64       `mapstructure:"factor"`
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		MinBackoff:  2 * time.Second,
		MaxBackoff:  30 * time.Second,
		Factor:      2,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p RetryPolicy) backoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    p.MinBackoff,
		Max:    p.MaxBackoff,
		Factor: p.Factor,
	}
}

// Do calls op until it succeeds, fails permanently or MaxAttempts is
// reached. onRetry, if set, is told about every failed attempt that will be
// retried.
func (p RetryPolicy) Do(ctx context.Context, sleep SleepFunc, op func(attempt int) error, onRetry func(attempt int, wait time.Duration, err error)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = Sleep
	}
	b := p.backoff()

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Permanent(ctxErr)
		}
		err = op(attempt)
		if err == nil {
			return nil
		}
		if IsPermanent(err) || attempt == attempts {
			break
		}
		wait := b.Duration()
		if onRetry != nil {
			onRetry(attempt, wait, err)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return Permanent(fmt.Errorf("retry interrupted: %w", serr))
		}
	}
	return err
}
