package metrics

import (
	"context"
	"time"
)

// MetricRecorder is an abstract interface for recording connection lifecycle
// metrics. It provides a standardized way to record connect attempts, pool
// creation and pool acquisition, independent of the metrics backend
// (e.g., Prometheus, OpenTelemetry Metrics).
type MetricRecorder interface {
	// RecordConnect records the outcome of one connect call.
	//
	// ctx: The context for the operation.
	// driver: The driver name (e.g., "postgres").
	// mode: The resolved connection mode ("SYNC", "ASYNC", "POOL").
	// duration: How long connection establishment took.
	// err: The failure, or nil on success.
	RecordConnect(ctx context.Context, driver string, mode string, duration time.Duration, err error)

	// RecordInvalidMode records a rejected mode value.
	// These fail pre-flight, before any driver call.
	RecordInvalidMode(ctx context.Context, mode string)

	// RecordPoolCreate records lazy creation of a factory's pool.
	//
	// driver: The driver name.
	// minSize, maxSize: The pool sizing handed to the driver.
	RecordPoolCreate(ctx context.Context, driver string, minSize, maxSize int)

	// RecordAcquire records the outcome of one pool acquisition.
	RecordAcquire(ctx context.Context, driver string, duration time.Duration, err error)
}

// Tracer is an abstract interface for distributed tracing of connection
// establishment, integrating with systems like OpenTelemetry.
type Tracer interface {
	// StartConnectSpan starts a span covering one connect or acquire call.
	//
	// ctx: The parent context.
	// driver: The driver name.
	// mode: The resolved connection mode.
	//
	// Returns: A context with the new span set, and a function to end the span.
	//          It is recommended to call the returned function in a defer statement.
	StartConnectSpan(ctx context.Context, driver string, mode string) (context.Context, func())

	// RecordError records an error in the current span.
	RecordError(ctx context.Context, module string, err error)
}
