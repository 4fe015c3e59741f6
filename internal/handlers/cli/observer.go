package cli

import (
	"context"

	"github.com/gabapcia/lazydict/internal/pkg/logger"
	"github.com/gabapcia/lazydict/internal/pkg/types"
)

// logObserver reports map activity at debug level.
type logObserver struct {
	ctx context.Context
}

var _ types.Observer = logObserver{}

func (o logObserver) StubRegistered(key any) {
	logger.Debug(o.ctx, "stub registered", "key", key)
}

func (o logObserver) StubResolved(key any, err error) {
	if err != nil {
		logger.Debug(o.ctx, "stub dropped", "key", key, "error", err)
		return
	}
	logger.Debug(o.ctx, "stub materialized", "key", key)
}

func (o logObserver) ValueAssigned(key any) {
	logger.Debug(o.ctx, "value assigned", "key", key)
}
