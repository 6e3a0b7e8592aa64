package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	metrics "github.com/tigerroll/riptide/pkg/conn/metrics"
)

// tracerName identifies riptide spans in the tracing backend.
const tracerName = "github.com/tigerroll/riptide"

// OpenTelemetryTracer is an implementation of metrics.Tracer using OpenTelemetry.
type OpenTelemetryTracer struct {
	tracer trace.Tracer
}

// NewOpenTelemetryTracer creates a new instance of OpenTelemetryTracer.
// It uses the globally configured tracer provider; see SetupOTLPTracing for
// wiring an OTLP exporter.
func NewOpenTelemetryTracer() *OpenTelemetryTracer {
	return &OpenTelemetryTracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartConnectSpan starts a span covering one connect or acquire call.
func (t *OpenTelemetryTracer) StartConnectSpan(ctx context.Context, driver string, mode string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "conn.obtain",
		trace.WithAttributes(
			attribute.String("db.driver", driver),
			attribute.String("conn.mode", mode),
		),
	)
	return ctx, func() { span.End() }
}

// RecordError records an error in the current span.
func (t *OpenTelemetryTracer) RecordError(ctx context.Context, module string, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err, trace.WithAttributes(attribute.String("conn.module", module)))
	span.SetStatus(codes.Error, err.Error())
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)
