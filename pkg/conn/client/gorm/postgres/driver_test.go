package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/riptide/pkg/conn/client"
	"github.com/tigerroll/riptide/pkg/conn/client/gorm/postgres"
)

// TestConnectionString verifies the keyword/value DSN built from discrete
// fields.
func TestConnectionString(t *testing.T) {
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

	got := postgres.ConnectionString(opts)
	assert.Equal(t, "host=localhost port=5656 user=edgedb password=edgedb dbname=edgedb connect_timeout=60", got)
}

// TestConnectionString_AdminFallsBackToMaintenanceDB verifies that admin
// connections without an explicit database dial the maintenance database.
func TestConnectionString_AdminFallsBackToMaintenanceDB(t *testing.T) {
	opts := client.ConnectOptions{
		Host:  "localhost",
		Port:  5656,
		Admin: true,
	}

	assert.Contains(t, postgres.ConnectionString(opts), "dbname=postgres")

	// An explicit database always wins over the admin fallback.
	database := "inventory"
	opts.Database = &database
	assert.Contains(t, postgres.ConnectionString(opts), "dbname=inventory")
}

// TestConnectionString_NoDatabase verifies that non-admin connections without
// a database leave dbname unset.
func TestConnectionString_NoDatabase(t *testing.T) {
	opts := client.ConnectOptions{Host: "localhost", Port: 5656}
	assert.NotContains(t, postgres.ConnectionString(opts), "dbname=")
}

// TestConnectionString_DSNWins verifies that an explicit DSN bypasses the
// discrete fields entirely.
func TestConnectionString_DSNWins(t *testing.T) {
	dsn := "postgres://app:pw@db.internal:5432/orders"
	opts := client.ConnectOptions{
		DSN:  &dsn,
		Host: "ignored",
	}
	assert.Equal(t, dsn, postgres.ConnectionString(opts))
}
