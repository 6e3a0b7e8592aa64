// Package mysql provides the GORM client implementation for MySQL databases.
package mysql

import (
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tigerroll/riptide/pkg/conn/client"
	gormclient "github.com/tigerroll/riptide/pkg/conn/client/gorm"
)

// DriverName is the name this client is registered under.
const DriverName = "mysql"

// init registers the MySQL dialector factory and the MySQL client.
func init() {
	gormclient.RegisterDialector(DriverName, func(opts client.ConnectOptions) (gorm.Dialector, error) {
		return mysql.Open(ConnectionString(opts)), nil
	})
	client.Register(DriverName, func() (client.Client, error) {
		return NewClient(), nil
	})
}

// ConnectionString generates the DSN for MySQL connections.
// A configured DSN wins over the discrete fields.
func ConnectionString(opts client.ConnectOptions) string {
	if opts.DSN != nil {
		return *opts.DSN
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	if opts.User != nil {
		cfg.User = *opts.User
	}
	if opts.Password != nil {
		cfg.Passwd = *opts.Password
	}
	if opts.Database != nil {
		cfg.DBName = *opts.Database
	}
	cfg.Timeout = opts.ConnectTimeout
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// NewClient creates a GORM client bound to the MySQL dialect.
func NewClient() *gormclient.Client {
	return gormclient.NewClient(DriverName)
}
