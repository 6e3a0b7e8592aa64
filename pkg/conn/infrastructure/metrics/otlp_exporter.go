package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// OTLPConfig selects the transport and endpoint of the OTLP trace exporter.
type OTLPConfig struct {
	// Protocol is "grpc" or "http".
	Protocol string
	// Endpoint is the collector address (host:port).
	Endpoint string
	// Insecure disables TLS toward the collector.
	Insecure bool
	// ServiceName overrides the reported service name. Defaults to "riptide".
	ServiceName string
}

// SetupOTLPTracing installs an OTLP-exporting tracer provider as the global
// OpenTelemetry provider. The returned shutdown function flushes remaining
// spans and must be called before the process exits.
func SetupOTLPTracing(ctx context.Context, cfg OTLPConfig) (func(context.Context) error, error) {
	var exporter *otlptrace.Exporter
	var err error

	switch cfg.Protocol {
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", cfg.Protocol)
	}
	if err != nil {
		return nil, err
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "riptide"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	logger.Infof("OTLP tracing enabled (%s, %s)", cfg.Protocol, cfg.Endpoint)

	return provider.Shutdown, nil
}
