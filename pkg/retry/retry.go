package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config bounds a retried gateway call. Defaults match the dispatch
// requirements: three attempts with the wait growing by the initial
// interval each time (1s, 2s).
type Config struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: time.Second,
	}
}

// Permanent marks an error as non-retryable. The wrapper returns it
// immediately without consuming further attempts.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op up to cfg.MaxAttempts times. The wait before attempt n+1 is
// n times the initial interval. It stops early when ctx is done and
// returns the last error wrapped with the attempt count.
func Do(ctx context.Context, cfg Config, op func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}

	attempt := 0
	policy := backoff.WithContext(&linearBackoff{interval: cfg.InitialInterval}, ctx)

	err := backoff.Retry(func() error {
		attempt++
		if err := op(); err != nil {
			if attempt >= cfg.MaxAttempts {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, policy)

	if err != nil {
		return fmt.Errorf("after %d attempt(s): %w", attempt, err)
	}
	return nil
}

// linearBackoff waits interval, 2*interval, 3*interval, ...
type linearBackoff struct {
	interval time.Duration
	retries  int
}

func (l *linearBackoff) NextBackOff() time.Duration {
	l.retries++
	return time.Duration(l.retries) * l.interval
}

func (l *linearBackoff) Reset() {
	l.retries = 0
}
