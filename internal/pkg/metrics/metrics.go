// Package metrics exposes LazyMap statistics and command timings as
// Prometheus metrics, on a registry owned by a Recorder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gabapcia/lazydict/internal/pkg/types"
)

const (
	promNamespace = "lazydict"
)

var durationBuckets = []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 30}

// statsCollector reads the counters of a types.Stats at scrape time.
type statsCollector struct {
	stats *types.Stats

	stubs     *prometheus.Desc
	resolved  *prometheus.Desc
	realItems *prometheus.Desc
}

var _ prometheus.Collector = (*statsCollector)(nil)

func newStatsCollector(mapName string, stats *types.Stats) *statsCollector {
	labels := prometheus.Labels{"map": mapName}

	return &statsCollector{
		stats:     stats,
		stubs:     prometheus.NewDesc(prometheus.BuildFQName(promNamespace, "stubs", "registered_total"), "Stubs registered.", nil, labels),
		resolved:  prometheus.NewDesc(prometheus.BuildFQName(promNamespace, "stubs", "resolved_total"), "Stubs resolved successfully.", nil, labels),
		realItems: prometheus.NewDesc(prometheus.BuildFQName(promNamespace, "items", "assigned_total"), "Concrete values assigned directly.", nil, labels),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stubs
	ch <- c.resolved
	ch <- c.realItems
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.stubs, prometheus.CounterValue, float64(c.stats.Stubs()))
	ch <- prometheus.MustNewConstMetric(c.resolved, prometheus.CounterValue, float64(c.stats.Resolved()))
	ch <- prometheus.MustNewConstMetric(c.realItems, prometheus.CounterValue, float64(c.stats.RealItems()))
}

// Recorder owns a Prometheus registry holding the counters of one map and the
// duration and status of the operations run against it.
type Recorder struct {
	registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	operationStatus   *prometheus.CounterVec
}

// NewRecorder creates a registry exposing stats under the given map name.
func NewRecorder(mapName string, stats *types.Stats) *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newStatsCollector(mapName, stats))

	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: promNamespace,
			Name:      "operation_duration_seconds",
			Buckets:   durationBuckets,
		}, []string{"operation"}),
		operationStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "operation_status_total",
		}, []string{"operation", "status"}),
	}
}

// TrackDuration starts timing operation. Call the returned func when it ends.
func (r *Recorder) TrackDuration(operation string) func() {
	start := time.Now()
	return func() {
		r.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// TrackStatus counts one run of operation ending with status.
func (r *Recorder) TrackStatus(operation, status string) {
	r.operationStatus.WithLabelValues(operation, status).Inc()
}

// Gatherer returns the registry, e.g. for promhttp.HandlerFor.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format,
// replacing the file atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
