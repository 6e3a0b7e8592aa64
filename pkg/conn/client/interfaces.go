// Package client defines the boundary between riptide and the external database
// client libraries. A Client knows how to dial a single connection and how to
// build a pool; everything behind those two calls (wire protocol, auth
// handshake, pool slot management) belongs to the driver.
package client

import (
	"context"
	"time"

	"github.com/tigerroll/riptide/pkg/conn/config"
)

// ConnectOptions carries the per-dial parameters handed to a Client.
// Optional fields mirror config.ConnectionConfig: nil means unset.
type ConnectOptions struct {
	// DSN, when non-nil, takes precedence over the discrete fields.
	DSN *string
	// Host is the database host address.
	Host string
	// Port is the database port number.
	Port int
	// Admin requests a maintenance-level connection where the driver supports one.
	Admin bool
	// User is the database user.
	User *string
	// Password is the database password. Never logged.
	Password *string
	// Database is the database name.
	Database *string
	// ConnectTimeout bounds connection establishment. Zero means no local deadline.
	ConnectTimeout time.Duration
}

// PoolOptions carries pool sizing for Client.NewPool.
type PoolOptions struct {
	// MinSize is the minimum number of connections the pool keeps open.
	MinSize int
	// MaxSize is the maximum number of connections the pool grows to.
	MaxSize int
}

// OptionsFromConfig converts a validated ConnectionConfig into the
// ConnectOptions and PoolOptions handed to a Client.
func OptionsFromConfig(cfg *config.ConnectionConfig) (ConnectOptions, PoolOptions) {
	connectOpts := ConnectOptions{
		DSN:            cfg.DSN,
		Host:           cfg.Host,
		Port:           cfg.Port,
		Admin:          cfg.Admin,
		User:           cfg.User,
		Password:       cfg.Password,
		Database:       cfg.Database,
		ConnectTimeout: cfg.ConnectTimeout(),
	}
	poolOpts := PoolOptions{
		MinSize: cfg.PoolMinSize,
		MaxSize: cfg.PoolMaxSize,
	}
	return connectOpts, poolOpts
}

// Connection represents one established database connection.
// Connections produced in SYNC/ASYNC mode are owned by the caller; pooled
// connections go back to their pool on Close.
type Connection interface {
	// ID returns a stable identifier for log correlation.
	ID() string
	// Driver returns the name of the driver that produced this connection.
	Driver() string
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// Close releases the connection. After Close, IsClosed reports true.
	Close(ctx context.Context) error
	// IsClosed reports whether the connection has been closed. Irreversible.
	IsClosed() bool
}

// Pool is a managed set of reusable connections.
type Pool interface {
	// Acquire returns one member of the pool, dialing if the pool is below MaxSize.
	Acquire(ctx context.Context) (Connection, error)
	// Close shuts the pool down and releases every member.
	Close(ctx context.Context) error
	// MinSize returns the configured minimum pool size.
	MinSize() int
	// MaxSize returns the configured maximum pool size.
	MaxSize() int
}

// Client is implemented once per supported driver and registered under the
// driver's name. Failures are returned as the driver produced them; riptide
// does not translate, retry or suppress.
type Client interface {
	// Name returns the registered driver name.
	Name() string
	// Connect dials a single blocking connection.
	Connect(ctx context.Context, opts ConnectOptions) (Connection, error)
	// NewPool builds a connection pool. Riptide creates at most one per factory.
	NewPool(ctx context.Context, opts ConnectOptions, pool PoolOptions) (Pool, error)
}
