// Package sqlite provides the GORM client implementation for SQLite databases.
package sqlite

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tigerroll/riptide/pkg/conn/client"
	gormclient "github.com/tigerroll/riptide/pkg/conn/client/gorm"
)

// DriverName is the name this client is registered under.
const DriverName = "sqlite"

// init registers the SQLite dialector factory and the SQLite client.
func init() {
	gormclient.RegisterDialector(DriverName, func(opts client.ConnectOptions) (gorm.Dialector, error) {
		path := ConnectionString(opts)
		if path == "" {
			return nil, errors.New("SQLite database path cannot be empty")
		}
		return sqlite.Open(path), nil
	})
	client.Register(DriverName, func() (client.Client, error) {
		return NewClient(), nil
	})
}

// ConnectionString generates the DSN for SQLite connections.
// The SQLite dialector expects the file path directly; host and port are unused.
func ConnectionString(opts client.ConnectOptions) string {
	if opts.DSN != nil {
		return *opts.DSN
	}
	if opts.Database != nil {
		return *opts.Database
	}
	return ""
}

// NewClient creates a GORM client bound to the SQLite dialect.
func NewClient() *gormclient.Client {
	return gormclient.NewClient(DriverName)
}
