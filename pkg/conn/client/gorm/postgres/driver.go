// Package postgres provides the GORM dialector for PostgreSQL databases.
//
// The "postgres" entry in the client registry is served by the native pgx
// client; GORM-backed PostgreSQL access is available by constructing the
// client directly with NewClient.
package postgres

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tigerroll/riptide/pkg/conn/client"
	gormclient "github.com/tigerroll/riptide/pkg/conn/client/gorm"
)

// DialectName identifies this dialect in the gorm dialector registry.
const DialectName = "postgres"

// maintenanceDatabase is dialed for admin connections with no explicit database.
const maintenanceDatabase = "postgres"

// init registers the PostgreSQL dialector factory with the GORM client.
func init() {
	gormclient.RegisterDialector(DialectName, func(opts client.ConnectOptions) (gorm.Dialector, error) {
		return postgres.Open(ConnectionString(opts)), nil
	})
}

// ConnectionString generates the keyword/value DSN for PostgreSQL connections.
// A configured DSN wins over the discrete fields.
func ConnectionString(opts client.ConnectOptions) string {
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
		parts = append(parts, fmt.Sprintf("dbname=%s", maintenanceDatabase))
	}
	if opts.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", int(opts.ConnectTimeout.Seconds())))
	}
	return strings.Join(parts, " ")
}

// NewClient creates a GORM client bound to the PostgreSQL dialect.
func NewClient() *gormclient.Client {
	return gormclient.NewClient(DialectName)
}
