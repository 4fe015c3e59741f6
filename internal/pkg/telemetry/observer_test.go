package telemetry

import (
	"context"
	"testing"

	"github.com/gabapcia/lazydict/internal/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// collectSums gathers every int64 sum data point keyed by instrument name.
func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string][]metricdata.DataPoint[int64] {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string][]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "instrument %s should be an int64 sum", m.Name)
			out[m.Name] = append(out[m.Name], sum.DataPoints...)
		}
	}
	return out
}

func TestMapObserver(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	obs, err := NewMapObserver(mp, "users")
	require.NoError(t, err)

	m := types.NewLazyMapFrom(map[string]string{"a": "1"}, types.WithObserver[string, string](obs))
	m.SetStub("b", func(key string, _ ...any) (string, error) { return key, nil })
	m.SetStub("c", func(string, ...any) (string, error) { return "", assert.AnError })

	_, err = m.Lookup("b")
	require.NoError(t, err)
	_, err = m.Lookup("c")
	require.Error(t, err)

	sums := collectSums(t, reader)

	require.Len(t, sums["lazydict.stubs.registered"], 1)
	assert.Equal(t, int64(2), sums["lazydict.stubs.registered"][0].Value)

	require.Len(t, sums["lazydict.items.assigned"], 1)
	assert.Equal(t, int64(1), sums["lazydict.items.assigned"][0].Value)

	byOutcome := make(map[string]int64)
	for _, dp := range sums["lazydict.stubs.resolved"] {
		outcome, ok := dp.Attributes.Value(attribute.Key("outcome"))
		require.True(t, ok)
		mapName, ok := dp.Attributes.Value(attribute.Key("map"))
		require.True(t, ok)
		assert.Equal(t, "users", mapName.AsString())

		byOutcome[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"resolved": 1, "failed": 1}, byOutcome)
}
