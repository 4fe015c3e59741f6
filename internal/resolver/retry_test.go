package resolver

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabapcia/lazydict/internal/pkg/resilience/retry"
	"github.com/gabapcia/lazydict/internal/pkg/types"
)

func TestWithRetry(t *testing.T) {
	newRetry := func() retry.Retry {
		return retry.New(
			retry.WithAttempts(3),
			retry.WithDelay(time.Millisecond),
			retry.WithMaxDelay(2*time.Millisecond),
			retry.WithRetryIf(Retryable),
		)
	}

	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		flaky := func(key string, _ ...any) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return key + "!", nil
		}

		m := types.NewLazyMap[string, string]()
		m.SetStub("k", WithRetry(t.Context(), newRetry(), flaky))

		val, err := m.Lookup("k")
		require.NoError(t, err)
		assert.Equal(t, "k!", val)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry missing values", func(t *testing.T) {
		calls := 0
		missing := func(key string, _ ...any) (string, error) {
			calls++
			return "", ErrValueNotFound
		}

		_, err := WithRetry(t.Context(), newRetry(), missing)("k")

		assert.ErrorIs(t, err, ErrValueNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not retry rejected requests", func(t *testing.T) {
		calls := 0
		rejected := func(key string, _ ...any) (string, error) {
			calls++
			return "", fmt.Errorf("%w: 403", ErrUnexpectedStatus)
		}

		_, err := WithRetry(t.Context(), newRetry(), rejected)("k")

		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns the last error once attempts run out", func(t *testing.T) {
		boom := errors.New("boom")

		_, err := WithRetry(t.Context(), newRetry(), func(int, ...any) (int, error) { return 0, boom })(1)

		assert.ErrorIs(t, err, boom)
	})
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(errors.New("timeout")))
	assert.False(t, Retryable(fmt.Errorf("%w: 400", ErrUnexpectedStatus)))
	assert.False(t, Retryable(ErrValueNotFound))
	assert.False(t, Retryable(ErrMissingTemplate))
	assert.False(t, Retryable(&types.KeyError{Key: "x"}))
	assert.False(t, Retryable(&types.ResolutionError{Key: "x", Err: types.ErrNoResolver}))
}
