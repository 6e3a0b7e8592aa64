// Package gorm provides a client.Client implementation backed by GORM.
// Dialect packages (mysql, postgres, sqlite) register a DialectorFactory here;
// importing a dialect package is all it takes to make it available.
package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tigerroll/riptide/pkg/conn/client"
	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// DialectorFactory generates a gorm.Dialector from connect options.
type DialectorFactory func(opts client.ConnectOptions) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers a DialectorFactory for the given dialect name.
func RegisterDialector(dialect string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dialect]; exists {
		logger.Warnf("Dialector for dialect '%s' already registered. Overwriting.", dialect)
	}
	dialectorRegistry[dialect] = factory
}

// GetDialectorFactory retrieves the DialectorFactory for the specified dialect.
func GetDialectorFactory(dialect string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dialect]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for dialect: %s", dialect)
	}
	return factory, nil
}

// Client implements client.Client for one registered GORM dialect.
type Client struct {
	dialect string
}

// NewClient creates a Client for the given dialect name.
func NewClient(dialect string) *Client {
	return &Client{dialect: dialect}
}

// Name returns the dialect this client serves.
func (c *Client) Name() string { return c.dialect }

// open establishes a GORM handle and verifies it with a ping, honoring the
// configured connect timeout.
func (c *Client) open(ctx context.Context, opts client.ConnectOptions) (*gorm.DB, *sql.DB, error) {
	factory, err := GetDialectorFactory(c.dialect)
	if err != nil {
		return nil, nil, err
	}
	dialector, err := factory(opts)
	if err != nil {
		return nil, nil, err
	}

	// GORM's own logging stays silent; riptide logs through its own logger.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	return db, sqlDB, nil
}

// Connect dials a single blocking connection.
// The underlying sql.DB is pinned to one open connection so the handle behaves
// like a single session rather than a pool.
func (c *Client) Connect(ctx context.Context, opts client.ConnectOptions) (client.Connection, error) {
	db, sqlDB, err := c.open(ctx, opts)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	conn := &Connection{
		id:      uuid.NewString(),
		dialect: c.dialect,
		db:      db,
		sqlDB:   sqlDB,
	}
	logger.Debugf("Established %s connection %s", c.dialect, conn.id)
	return conn, nil
}

// NewPool builds a pool over the driver's sql.DB, mapping MinSize to the idle
// pool and MaxSize to the open-connection cap.
func (c *Client) NewPool(ctx context.Context, opts client.ConnectOptions, pool client.PoolOptions) (client.Pool, error) {
	db, sqlDB, err := c.open(ctx, opts)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(pool.MaxSize)
	sqlDB.SetMaxIdleConns(pool.MinSize)

	logger.Infof("Created %s pool (%d..%d connections)", c.dialect, pool.MinSize, pool.MaxSize)
	return &Pool{
		dialect: c.dialect,
		db:      db,
		sqlDB:   sqlDB,
		minSize: pool.MinSize,
		maxSize: pool.MaxSize,
	}, nil
}

// IsTemporaryDriverError reports whether err is a transient driver-level
// failure worth retrying at a higher layer.
func IsTemporaryDriverError(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// Deadlock and lock wait timeout.
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return errors.Is(err, gomysql.ErrInvalidConn)
}

// Connection wraps a single-session gorm handle.
type Connection struct {
	id      string
	dialect string
	db      *gorm.DB
	sqlDB   *sql.DB
	closed  atomic.Bool
}

// ID returns the connection's identifier for log correlation.
func (c *Connection) ID() string { return c.id }

// Driver returns the dialect name.
func (c *Connection) Driver() string { return c.dialect }

// DB exposes the gorm handle for callers that query through GORM.
func (c *Connection) DB() *gorm.DB { return c.db }

// Ping verifies the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return fmt.Errorf("connection %s already closed", c.id)
	}
	return c.sqlDB.PingContext(ctx)
}

// Close closes the underlying database handle.
func (c *Connection) Close(ctx context.Context) error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.sqlDB.Close()
}

// IsClosed reports whether the connection has been closed.
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}

// Pool adapts sql.DB's built-in pooling to the client.Pool interface.
type Pool struct {
	dialect string
	db      *gorm.DB
	sqlDB   *sql.DB
	minSize int
	maxSize int
	closed  atomic.Bool
}

// Acquire checks one connection out of the sql.DB pool.
func (p *Pool) Acquire(ctx context.Context) (client.Connection, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("%s pool is closed", p.dialect)
	}
	conn, err := p.sqlDB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &pooledConnection{
		id:      uuid.NewString(),
		dialect: p.dialect,
		conn:    conn,
	}, nil
}

// Close shuts the pool down and releases every member.
func (p *Pool) Close(ctx context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.sqlDB.Close()
}

// MinSize returns the configured minimum pool size.
func (p *Pool) MinSize() int { return p.minSize }

// MaxSize returns the configured maximum pool size.
func (p *Pool) MaxSize() int { return p.maxSize }

// pooledConnection wraps a checked-out *sql.Conn.
// Close returns the slot to the pool rather than closing the socket.
type pooledConnection struct {
	id      string
	dialect string
	conn    *sql.Conn
	closed  atomic.Bool
}

func (c *pooledConnection) ID() string     { return c.id }
func (c *pooledConnection) Driver() string { return c.dialect }

func (c *pooledConnection) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return fmt.Errorf("connection %s already released", c.id)
	}
	return c.conn.PingContext(ctx)
}

func (c *pooledConnection) Close(ctx context.Context) error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

func (c *pooledConnection) IsClosed() bool {
	return c.closed.Load()
}
