package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"

	"github.com/tigerroll/riptide/pkg/conn/config"
	"github.com/tigerroll/riptide/pkg/conn/metrics"
	"github.com/tigerroll/riptide/pkg/conn/support/util/exception"
	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// FactoryProvider builds and memoizes one Factory per named connection target
// in the root configuration.
type FactoryProvider struct {
	cfg      *config.Config
	recorder metrics.MetricRecorder
	tracer   metrics.Tracer

	// factories maps target name to the Factory serving it.
	mu        sync.RWMutex
	factories map[string]*Factory
}

// NewFactoryProvider creates a new FactoryProvider.
func NewFactoryProvider(cfg *config.Config, opts ...Option) *FactoryProvider {
	// Options are applied per factory; a probe factory collects them once.
	probe := &Factory{
		recorder: metrics.NewNoOpMetricRecorder(),
		tracer:   metrics.NewNoOpTracer(),
	}
	for _, opt := range opts {
		opt(probe)
	}

	return &FactoryProvider{
		cfg:       cfg,
		recorder:  probe.recorder,
		tracer:    probe.tracer,
		factories: make(map[string]*Factory),
	}
}

// Get retrieves the Factory for the named target, building it on first use.
func (p *FactoryProvider) Get(name string) (*Factory, error) {
	p.mu.RLock()
	f, ok := p.factories[name]
	p.mu.RUnlock()

	if ok {
		return f, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double check (DCL)
	f, ok = p.factories[name]
	if ok {
		return f, nil
	}

	return p.createAndStoreFactory(name)
}

// Default retrieves the Factory for the configured default target.
func (p *FactoryProvider) Default() (*Factory, error) {
	return p.Get(p.cfg.Riptide.DefaultConnection)
}

// createAndStoreFactory decodes the raw target configuration, resolves its
// client and stores the resulting Factory. Call with p.mu held.
func (p *FactoryProvider) createAndStoreFactory(name string) (*Factory, error) {
	rawConfig, ok := p.cfg.Riptide.Connections[name]
	if !ok {
		return nil, fmt.Errorf("connection configuration '%s' not found in riptide.connections", name)
	}

	connCfg := config.NewConnectionConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           connCfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, exception.NewConnError(moduleName, "failed to build decoder", err, false)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, exception.NewConnErrorf(moduleName, "failed to decode connection config for '%s'", name, err)
	}

	f, err := NewFromRegistry(connCfg, WithMetricRecorder(p.recorder), WithTracer(p.tracer))
	if err != nil {
		return nil, err
	}

	p.factories[name] = f
	logger.Infof("Registered connection factory '%s' (%s)", name, connCfg.Redacted())

	return f, nil
}

// CloseAll closes every factory built by this provider, aggregating failures.
func (p *FactoryProvider) CloseAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs *multierror.Error
	for name, f := range p.factories {
		if err := f.Close(ctx); err != nil {
			logger.Errorf("Failed to close factory '%s': %v", name, err)
			errs = multierror.Append(errs, err)
		}
		delete(p.factories, name)
	}
	return errs.ErrorOrNil()
}
