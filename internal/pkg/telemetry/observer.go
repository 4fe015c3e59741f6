package telemetry

import (
	"context"

	"github.com/gabapcia/lazydict/internal/pkg/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName identifies the meter used for LazyMap instruments.
const instrumentationName = "github.com/gabapcia/lazydict"

const (
	outcomeResolved = "resolved"
	outcomeFailed   = "failed"
)

// MapObserver is a types.Observer that records LazyMap activity as
// OpenTelemetry counters, tagged with the map's name:
//
//   - lazydict.stubs.registered
//   - lazydict.stubs.resolved (with an "outcome" attribute: resolved or failed)
//   - lazydict.items.assigned
type MapObserver struct {
	registered metric.Int64Counter
	resolved   metric.Int64Counter
	assigned   metric.Int64Counter

	name attribute.KeyValue
}

var _ types.Observer = (*MapObserver)(nil)

// NewMapObserver creates the counters on a meter obtained from mp.
func NewMapObserver(mp metric.MeterProvider, mapName string) (*MapObserver, error) {
	meter := mp.Meter(instrumentationName)

	registered, err := meter.Int64Counter("lazydict.stubs.registered",
		metric.WithDescription("Number of stubs registered."),
	)
	if err != nil {
		return nil, err
	}

	resolved, err := meter.Int64Counter("lazydict.stubs.resolved",
		metric.WithDescription("Number of stub resolutions, by outcome."),
	)
	if err != nil {
		return nil, err
	}

	assigned, err := meter.Int64Counter("lazydict.items.assigned",
		metric.WithDescription("Number of concrete values assigned directly."),
	)
	if err != nil {
		return nil, err
	}

	return &MapObserver{
		registered: registered,
		resolved:   resolved,
		assigned:   assigned,
		name:       attribute.String("map", mapName),
	}, nil
}

func (o *MapObserver) StubRegistered(any) {
	o.registered.Add(context.Background(), 1, metric.WithAttributes(o.name))
}

func (o *MapObserver) StubResolved(_ any, err error) {
	outcome := outcomeResolved
	if err != nil {
		outcome = outcomeFailed
	}

	o.resolved.Add(context.Background(), 1, metric.WithAttributes(o.name, attribute.String("outcome", outcome)))
}

func (o *MapObserver) ValueAssigned(any) {
	o.assigned.Add(context.Background(), 1, metric.WithAttributes(o.name))
}
