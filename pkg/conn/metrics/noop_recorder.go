package metrics

import (
	"context"
	"time"
)

// NoOpMetricRecorder is an implementation of MetricRecorder that does nothing.
// It is used when metrics are disabled or during testing.
type NoOpMetricRecorder struct{}

// NewNoOpMetricRecorder creates a new instance of NoOpMetricRecorder.
func NewNoOpMetricRecorder() MetricRecorder {
	return &NoOpMetricRecorder{}
}

// RecordConnect does nothing.
func (r *NoOpMetricRecorder) RecordConnect(ctx context.Context, driver string, mode string, duration time.Duration, err error) {
}

// RecordInvalidMode does nothing.
func (r *NoOpMetricRecorder) RecordInvalidMode(ctx context.Context, mode string) {}

// RecordPoolCreate does nothing.
func (r *NoOpMetricRecorder) RecordPoolCreate(ctx context.Context, driver string, minSize, maxSize int) {
}

// RecordAcquire does nothing.
func (r *NoOpMetricRecorder) RecordAcquire(ctx context.Context, driver string, duration time.Duration, err error) {
}

var _ MetricRecorder = (*NoOpMetricRecorder)(nil)

// NoOpTracer is an implementation of Tracer that does nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new instance of NoOpTracer.
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}

// StartConnectSpan returns the context unchanged and a no-op end function.
func (t *NoOpTracer) StartConnectSpan(ctx context.Context, driver string, mode string) (context.Context, func()) {
	return ctx, func() {}
}

// RecordError does nothing.
func (t *NoOpTracer) RecordError(ctx context.Context, module string, err error) {}

var _ Tracer = (*NoOpTracer)(nil)
