package factory

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/riptide/pkg/conn/config"
	"github.com/tigerroll/riptide/pkg/conn/metrics"
)

// ProviderParams defines the dependencies for NewFactoryProviderFx.
type ProviderParams struct {
	fx.In
	Cfg      *config.Config
	Recorder metrics.MetricRecorder `optional:"true"`
	Tracer   metrics.Tracer         `optional:"true"`
}

// NewFactoryProviderFx builds the FactoryProvider from the Fx graph and closes
// every factory on application stop.
func NewFactoryProviderFx(lc fx.Lifecycle, params ProviderParams) *FactoryProvider {
	opts := []Option{}
	if params.Recorder != nil {
		opts = append(opts, WithMetricRecorder(params.Recorder))
	}
	if params.Tracer != nil {
		opts = append(opts, WithTracer(params.Tracer))
	}
	p := NewFactoryProvider(params.Cfg, opts...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.CloseAll(ctx)
		},
	})

	return p
}

// Module exports the factory components for dependency injection.
var Module = fx.Options(
	fx.Provide(NewFactoryProviderFx),
	// The default factory, resolved from the provider by the configured name.
	fx.Provide(func(p *FactoryProvider) (*Factory, error) {
		return p.Default()
	}),
)
