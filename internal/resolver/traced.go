package resolver

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gabapcia/lazydict/internal/pkg/logger"
	"github.com/gabapcia/lazydict/internal/pkg/types"
)

// SpanName is the name of the span recorded around every traced resolution.
const SpanName = "lazydict.resolve"

// Traced records a span around every call of next. Failures are recorded on
// the span and logged with its trace id.
func Traced[K comparable, V any](ctx context.Context, tracer trace.Tracer, next types.Resolver[K, V]) types.Resolver[K, V] {
	return func(key K, args ...any) (V, error) {
		ctx, span := tracer.Start(ctx, SpanName, trace.WithAttributes(
			attribute.String("lazydict.key", fmt.Sprint(key)),
			attribute.Int("lazydict.args", len(args)),
		))
		defer span.End()

		val, err := next(key, args...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Warn(ctx, "stub resolution failed", "key", key, "error", err)
			return val, err
		}

		logger.Debug(ctx, "stub resolved", "key", key)
		return val, nil
	}
}
