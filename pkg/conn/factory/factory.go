// Package factory implements the connection factory: it holds one validated
// connection configuration and, per request, produces a connection in one of
// three modes. SYNC dials on the calling goroutine, ASYNC dials in the
// background and hands back a Deferred, POOL lazily creates the factory's one
// pool and acquires a slot from it.
package factory

import (
	"context"
	"sync"
	"time"

	"github.com/tigerroll/riptide/pkg/conn/client"
	"github.com/tigerroll/riptide/pkg/conn/config"
	"github.com/tigerroll/riptide/pkg/conn/metrics"
	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

const moduleName = "factory"

// Handle is the result of Obtain. For SYNC mode it is already resolved and
// Await returns immediately; for ASYNC and POOL modes Await blocks until the
// background dial or acquisition finishes.
type Handle struct {
	mode config.Mode
	conn client.Connection
	def  *Deferred
}

// Mode returns the mode this handle was obtained with.
func (h *Handle) Mode() config.Mode { return h.mode }

// Await resolves the handle into a usable connection.
func (h *Handle) Await(ctx context.Context) (client.Connection, error) {
	if h.def != nil {
		return h.def.Await(ctx)
	}
	return h.conn, nil
}

// Factory produces connections for one database target.
// It owns at most one lazily created pool; connections produced in SYNC and
// ASYNC modes belong to the caller and are never tracked.
type Factory struct {
	cfg      *config.ConnectionConfig
	client   client.Client
	recorder metrics.MetricRecorder
	tracer   metrics.Tracer

	// pool is created at most once, on the first POOL-mode request.
	poolMu sync.Mutex
	pool   client.Pool
}

// Option customizes a Factory.
type Option func(*Factory)

// WithMetricRecorder attaches a metric recorder to the factory.
func WithMetricRecorder(r metrics.MetricRecorder) Option {
	return func(f *Factory) {
		if r != nil {
			f.recorder = r
		}
	}
}

// WithTracer attaches a tracer to the factory.
func WithTracer(t metrics.Tracer) Option {
	return func(f *Factory) {
		if t != nil {
			f.tracer = t
		}
	}
}

// New creates a Factory for the given configuration and client.
// The configuration is validated here, so a stored invalid mode is rejected at
// construction time rather than surfacing on the first Obtain.
func New(cfg *config.ConnectionConfig, cl client.Client, opts ...Option) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Factory{
		cfg:      cfg,
		client:   cl,
		recorder: metrics.NewNoOpMetricRecorder(),
		tracer:   metrics.NewNoOpTracer(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewFromRegistry creates a Factory whose client is looked up in the client
// registry by the configuration's driver name.
func NewFromRegistry(cfg *config.ConnectionConfig, opts ...Option) (*Factory, error) {
	cl, err := client.New(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return New(cfg, cl, opts...)
}

// Config returns the factory's configuration.
func (f *Factory) Config() *config.ConnectionConfig { return f.cfg }

// Client returns the client the factory dispatches to.
func (f *Factory) Client() client.Client { return f.client }

// resolveMode picks the effective mode: an explicit override wins, otherwise
// the stored mode is used. Validation happens here, before any client call.
func (f *Factory) resolveMode(override ...config.Mode) (config.Mode, error) {
	mode := f.cfg.Mode
	if len(override) > 0 && override[0] != "" {
		mode = override[0]
	}
	if !mode.Valid() {
		return "", &config.InvalidModeError{Value: string(mode)}
	}
	return mode, nil
}

// Obtain produces a connection handle in the resolved mode.
//
// Mode validation is synchronous and pre-flight in every mode: an unrecognized
// mode fails with *config.InvalidModeError before any network activity, even
// for the deferred modes. SYNC dial failures are returned from Obtain itself;
// ASYNC and POOL failures surface from Handle.Await. Driver errors propagate
// unmodified in all cases.
func (f *Factory) Obtain(ctx context.Context, override ...config.Mode) (*Handle, error) {
	mode, err := f.resolveMode(override...)
	if err != nil {
		f.recorder.RecordInvalidMode(ctx, string(f.modeValue(override...)))
		return nil, err
	}

	switch mode {
	case config.ModeSync:
		conn, err := f.ConnectSync(ctx)
		if err != nil {
			return nil, err
		}
		return &Handle{mode: mode, conn: conn}, nil
	case config.ModeAsync:
		return &Handle{mode: mode, def: f.ConnectAsync(ctx)}, nil
	default: // config.ModePool, the only remaining valid mode.
		return &Handle{mode: mode, def: f.AcquirePool(ctx)}, nil
	}
}

// modeValue reports the raw mode string for metrics, before validation.
func (f *Factory) modeValue(override ...config.Mode) config.Mode {
	if len(override) > 0 && override[0] != "" {
		return override[0]
	}
	return f.cfg.Mode
}

// ConnectSync dials a blocking connection and returns it ready to use.
// The caller owns the connection and is responsible for closing it.
func (f *Factory) ConnectSync(ctx context.Context) (client.Connection, error) {
	connectOpts, _ := client.OptionsFromConfig(f.cfg)

	ctx, end := f.tracer.StartConnectSpan(ctx, f.client.Name(), string(config.ModeSync))
	defer end()

	start := time.Now()
	conn, err := f.client.Connect(ctx, connectOpts)
	f.recorder.RecordConnect(ctx, f.client.Name(), string(config.ModeSync), time.Since(start), err)
	if err != nil {
		f.tracer.RecordError(ctx, moduleName, err)
		return nil, err
	}
	return conn, nil
}

// ConnectAsync starts the dial in the background and returns a Deferred the
// caller must Await. The caller owns the resulting connection.
func (f *Factory) ConnectAsync(ctx context.Context) *Deferred {
	connectOpts, _ := client.OptionsFromConfig(f.cfg)
	d := newDeferred()

	go func() {
		ctx, end := f.tracer.StartConnectSpan(ctx, f.client.Name(), string(config.ModeAsync))
		defer end()

		start := time.Now()
		conn, err := f.client.Connect(ctx, connectOpts)
		f.recorder.RecordConnect(ctx, f.client.Name(), string(config.ModeAsync), time.Since(start), err)
		if err != nil {
			f.tracer.RecordError(ctx, moduleName, err)
		}
		d.resolve(conn, err)
	}()

	return d
}

// AcquirePool ensures the factory's pool exists, then acquires one slot from
// it in the background. Closing the resulting connection returns the slot to
// the pool; the pool itself lives until Factory.Close.
func (f *Factory) AcquirePool(ctx context.Context) *Deferred {
	d := newDeferred()

	go func() {
		ctx, end := f.tracer.StartConnectSpan(ctx, f.client.Name(), string(config.ModePool))
		defer end()

		pool, err := f.ensurePool(ctx)
		if err != nil {
			f.tracer.RecordError(ctx, moduleName, err)
			d.resolve(nil, err)
			return
		}

		start := time.Now()
		conn, err := pool.Acquire(ctx)
		f.recorder.RecordAcquire(ctx, f.client.Name(), time.Since(start), err)
		if err != nil {
			f.tracer.RecordError(ctx, moduleName, err)
		}
		d.resolve(conn, err)
	}()

	return d
}

// ensurePool returns the factory's pool, creating it on first use.
// Creation runs under a mutex with a second lookup, so concurrent first-time
// POOL requests still produce exactly one pool. A failed creation is not
// memoized; the next request retries.
func (f *Factory) ensurePool(ctx context.Context) (client.Pool, error) {
	f.poolMu.Lock()
	defer f.poolMu.Unlock()

	if f.pool != nil {
		return f.pool, nil
	}

	connectOpts, poolOpts := client.OptionsFromConfig(f.cfg)
	pool, err := f.client.NewPool(ctx, connectOpts, poolOpts)
	if err != nil {
		return nil, err
	}

	f.pool = pool
	f.recorder.RecordPoolCreate(ctx, f.client.Name(), poolOpts.MinSize, poolOpts.MaxSize)
	logger.Infof("Created connection pool for %s", f.cfg.Redacted())
	return pool, nil
}

// Pool returns the factory's pool, or nil if no POOL-mode request has been
// served yet.
func (f *Factory) Pool() client.Pool {
	f.poolMu.Lock()
	defer f.poolMu.Unlock()
	return f.pool
}

// Close releases the factory's pool if one was created.
// SYNC/ASYNC connections are caller-owned and unaffected.
func (f *Factory) Close(ctx context.Context) error {
	f.poolMu.Lock()
	pool := f.pool
	f.pool = nil
	f.poolMu.Unlock()

	if pool == nil {
		return nil
	}
	return pool.Close(ctx)
}
