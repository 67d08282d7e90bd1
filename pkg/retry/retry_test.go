package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialInterval: time.Millisecond}, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialInterval: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("gateway down")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialInterval: time.Millisecond}, func() error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "3 attempt(s)")
	assert.Equal(t, 3, calls)
}

func TestDoPermanentErrorStopsEarly(t *testing.T) {
	fatal := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialInterval: time.Millisecond}, func() error {
		calls++
		return Permanent(fatal)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, Config{MaxAttempts: 5, InitialInterval: 50 * time.Millisecond}, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoZeroConfigUsesDefaults(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{}, func() error {
		calls++
		return errors.New("always")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "a max of zero attempts means a single try")
}

func TestLinearBackoffGrows(t *testing.T) {
	b := &linearBackoff{interval: time.Second}

	assert.Equal(t, time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 3*time.Second, b.NextBackOff())

	b.Reset()
	assert.Equal(t, time.Second, b.NextBackOff())
}
