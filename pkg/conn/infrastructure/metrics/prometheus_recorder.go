package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	metrics "github.com/tigerroll/riptide/pkg/conn/metrics"
)

// PrometheusRecorder is a Prometheus implementation of the metrics.MetricRecorder interface.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	connectDurationSeconds *prometheus.HistogramVec
	connectCounter         *prometheus.CounterVec
	invalidModeCounter     *prometheus.CounterVec
	poolCreateCounter      *prometheus.CounterVec
	acquireDurationSeconds *prometheus.HistogramVec
	acquireCounter         *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new instance of PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	// Register Go standard metrics and process/OS metrics.
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		connectDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conn_connect_duration_seconds",
			Help:    "Duration of connection establishment.",
			Buckets: prometheus.DefBuckets,
		}, []string{"driver", "mode", "status"}),
		connectCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conn_connect_total",
			Help: "Total number of connect calls by driver, mode and status.",
		}, []string{"driver", "mode", "status"}),
		invalidModeCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conn_invalid_mode_total",
			Help: "Total number of obtain calls rejected for an unrecognized mode.",
		}, []string{"mode"}),
		poolCreateCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conn_pool_create_total",
			Help: "Total number of lazily created pools.",
		}, []string{"driver"}),
		acquireDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conn_pool_acquire_duration_seconds",
			Help:    "Duration of pool acquisitions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"driver", "status"}),
		acquireCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conn_pool_acquire_total",
			Help: "Total number of pool acquisitions by driver and status.",
		}, []string{"driver", "status"}),
	}

	registry.MustRegister(
		r.connectDurationSeconds,
		r.connectCounter,
		r.invalidModeCounter,
		r.poolCreateCounter,
		r.acquireDurationSeconds,
		r.acquireCounter,
	)

	return r
}

// Registry exposes the backing registry so callers can mount an HTTP handler for it.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordConnect records the outcome of one connect call.
func (r *PrometheusRecorder) RecordConnect(ctx context.Context, driver string, mode string, duration time.Duration, err error) {
	s := status(err)
	r.connectCounter.WithLabelValues(driver, mode, s).Inc()
	r.connectDurationSeconds.WithLabelValues(driver, mode, s).Observe(duration.Seconds())
}

// RecordInvalidMode records a rejected mode value.
func (r *PrometheusRecorder) RecordInvalidMode(ctx context.Context, mode string) {
	r.invalidModeCounter.WithLabelValues(mode).Inc()
}

// RecordPoolCreate records lazy creation of a factory's pool.
func (r *PrometheusRecorder) RecordPoolCreate(ctx context.Context, driver string, minSize, maxSize int) {
	r.poolCreateCounter.WithLabelValues(driver).Inc()
}

// RecordAcquire records the outcome of one pool acquisition.
func (r *PrometheusRecorder) RecordAcquire(ctx context.Context, driver string, duration time.Duration, err error) {
	s := status(err)
	r.acquireCounter.WithLabelValues(driver, s).Inc()
	r.acquireDurationSeconds.WithLabelValues(driver, s).Observe(duration.Seconds())
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)
