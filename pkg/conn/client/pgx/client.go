// Package pgx provides the native PostgreSQL client implementation, built on
// jackc/pgx. Single connections use pgx.ConnectConfig; pools use pgxpool with
// MinConns/MaxConns taken from the factory's pool sizing.
package pgx

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tigerroll/riptide/pkg/conn/client"
	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// DriverName is the name this client is registered under.
const DriverName = "postgres"

// maintenanceDatabase is dialed for admin connections with no explicit database.
const maintenanceDatabase = "postgres"

// init registers the pgx client with the client registry.
func init() {
	client.Register(DriverName, func() (client.Client, error) {
		return NewClient(), nil
	})
}

// Client implements client.Client for PostgreSQL via pgx.
type Client struct{}

// NewClient creates a new pgx-backed Client.
func NewClient() *Client {
	return &Client{}
}

// Name returns the registered driver name.
func (c *Client) Name() string { return DriverName }

// connString assembles a keyword/value connection string from the options.
// A configured DSN wins over the discrete fields.
func connString(opts client.ConnectOptions) string {
	if opts.DSN != nil {
		return *opts.DSN
	}

	parts := []string{
		fmt.Sprintf("host=%s", opts.Host),
		fmt.Sprintf("port=%d", opts.Port),
	}
	if opts.User != nil {
		parts = append(parts, fmt.Sprintf("user=%s", *opts.User))
	}
	if opts.Password != nil {
		parts = append(parts, fmt.Sprintf("password=%s", *opts.Password))
	}
	switch {
	case opts.Database != nil:
		parts = append(parts, fmt.Sprintf("dbname=%s", *opts.Database))
	case opts.Admin:
		// Admin connections without an explicit database target the maintenance database.
		parts = append(parts, fmt.Sprintf("dbname=%s", maintenanceDatabase))
	}
	if opts.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", int(opts.ConnectTimeout.Seconds())))
	}
	return strings.Join(parts, " ")
}

// Connect dials a single blocking connection.
// Dial failures are returned exactly as pgx produced them.
func (c *Client) Connect(ctx context.Context, opts client.ConnectOptions) (client.Connection, error) {
	connConfig, err := pgx.ParseConfig(connString(opts))
	if err != nil {
		return nil, err
	}
	if opts.ConnectTimeout > 0 {
		connConfig.ConnectTimeout = opts.ConnectTimeout
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, err
	}

	wrapped := &Connection{
		id:   uuid.NewString(),
		conn: conn,
	}
	logger.Debugf("Established postgres connection %s (%s:%d)", wrapped.id, connConfig.Host, connConfig.Port)
	return wrapped, nil
}

// NewPool builds a pgxpool.Pool sized to the factory's pool options.
func (c *Client) NewPool(ctx context.Context, opts client.ConnectOptions, pool client.PoolOptions) (client.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString(opts))
	if err != nil {
		return nil, err
	}
	poolConfig.MinConns = int32(pool.MinSize)
	poolConfig.MaxConns = int32(pool.MaxSize)
	if opts.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	p, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	logger.Infof("Created postgres pool (%d..%d connections)", pool.MinSize, pool.MaxSize)
	return &Pool{pool: p, minSize: pool.MinSize, maxSize: pool.MaxSize}, nil
}

// Connection wraps a single *pgx.Conn.
type Connection struct {
	id   string
	conn *pgx.Conn
}

// ID returns the connection's identifier for log correlation.
func (c *Connection) ID() string { return c.id }

// Driver returns the driver name.
func (c *Connection) Driver() string { return DriverName }

// Ping verifies the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the underlying connection.
func (c *Connection) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// IsClosed reports whether the connection has been closed.
func (c *Connection) IsClosed() bool {
	return c.conn.IsClosed()
}

// Pool wraps a *pgxpool.Pool.
type Pool struct {
	pool    *pgxpool.Pool
	minSize int
	maxSize int
	closed  atomic.Bool
}

// Acquire returns one pooled connection; Close on the returned connection
// releases the slot back to the pool.
func (p *Pool) Acquire(ctx context.Context) (client.Connection, error) {
	poolConn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pooledConnection{
		id:   uuid.NewString(),
		conn: poolConn,
	}, nil
}

// Close shuts the pool down and releases every member.
func (p *Pool) Close(ctx context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}
	p.pool.Close()
	return nil
}

// MinSize returns the configured minimum pool size.
func (p *Pool) MinSize() int { return p.minSize }

// MaxSize returns the configured maximum pool size.
func (p *Pool) MaxSize() int { return p.maxSize }

// pooledConnection wraps a *pgxpool.Conn slot.
// Close releases the slot rather than closing the TCP connection.
type pooledConnection struct {
	id     string
	conn   *pgxpool.Conn
	closed atomic.Bool
}

func (c *pooledConnection) ID() string     { return c.id }
func (c *pooledConnection) Driver() string { return DriverName }

func (c *pooledConnection) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return fmt.Errorf("connection %s already released", c.id)
	}
	return c.conn.Ping(ctx)
}

func (c *pooledConnection) Close(ctx context.Context) error {
	if c.closed.Swap(true) {
		return nil
	}
	c.conn.Release()
	return nil
}

func (c *pooledConnection) IsClosed() bool {
	return c.closed.Load()
}
