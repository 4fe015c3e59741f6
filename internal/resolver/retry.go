package resolver

import (
	"context"
	"errors"

	"github.com/gabapcia/lazydict/internal/pkg/resilience/retry"
	"github.com/gabapcia/lazydict/internal/pkg/types"
)

// WithRetry runs next through r, so a failing resolution is attempted again
// before the error reaches the map.
func WithRetry[K comparable, V any](ctx context.Context, r retry.Retry, next types.Resolver[K, V]) types.Resolver[K, V] {
	return func(key K, args ...any) (V, error) {
		var val V
		err := r.Execute(ctx, func() error {
			v, err := next(key, args...)
			if err != nil {
				return err
			}

			val = v
			return nil
		})
		if err != nil {
			var zero V
			return zero, err
		}

		return val, nil
	}
}

// Retryable reports whether err may succeed on another attempt. Missing
// values, rejected requests, missing resolvers and bad stub arguments never do.
func Retryable(err error) bool {
	return !errors.Is(err, ErrValueNotFound) &&
		!errors.Is(err, ErrUnexpectedStatus) &&
		!errors.Is(err, ErrMissingTemplate) &&
		!errors.Is(err, types.ErrKeyNotFound) &&
		!errors.Is(err, types.ErrNoResolver)
}
