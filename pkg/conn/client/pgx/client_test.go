package pgx

import (
	"testing"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/client"
)

// TestConnString verifies the keyword/value string by parsing it back with
// pgx's own parser.
func TestConnString(t *testing.T) {
	user := "edgedb"
	password := "edgedb"
	database := "edgedb"
	opts := client.ConnectOptions{
		Host:           "localhost",
		Port:           5656,
		User:           &user,
		Password:       &password,
		Database:       &database,
		ConnectTimeout: 60 * time.Second,
	}

	cfg, err := pgxv5.ParseConfig(connString(opts))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, uint16(5656), cfg.Port)
	assert.Equal(t, "edgedb", cfg.User)
	assert.Equal(t, "edgedb", cfg.Password)
	assert.Equal(t, "edgedb", cfg.Database)
	assert.Equal(t, 60*time.Second, cfg.ConnectTimeout)
}

// TestConnString_AdminFallsBackToMaintenanceDB verifies the admin fallback to
// the maintenance database and that an explicit database wins over it.
func TestConnString_AdminFallsBackToMaintenanceDB(t *testing.T) {
	opts := client.ConnectOptions{Host: "localhost", Port: 5656, Admin: true}
	assert.Contains(t, connString(opts), "dbname=postgres")

	database := "inventory"
	opts.Database = &database
	assert.Contains(t, connString(opts), "dbname=inventory")
}

// TestConnString_DSNWins verifies that an explicit DSN bypasses the discrete
// fields entirely.
func TestConnString_DSNWins(t *testing.T) {
	dsn := "postgres://app:pw@db.internal:5432/orders"
	opts := client.ConnectOptions{DSN: &dsn, Host: "ignored", Port: 9999}
	assert.Equal(t, dsn, connString(opts))
}

// TestRegistered verifies that importing this package registers the client
// under the postgres driver name.
func TestRegistered(t *testing.T) {
	cl, err := client.New(DriverName)
	require.NoError(t, err)
	assert.Equal(t, DriverName, cl.Name())
}
