package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/client"
	"github.com/tigerroll/riptide/pkg/conn/client/gorm/sqlite"
)

// TestConnectionString verifies the path resolution order: DSN, then
// database, then empty.
func TestConnectionString(t *testing.T) {
	dsn := "file::memory:?cache=shared"
	database := "/var/lib/app/app.db"

	assert.Equal(t, dsn, sqlite.ConnectionString(client.ConnectOptions{DSN: &dsn, Database: &database}))
	assert.Equal(t, database, sqlite.ConnectionString(client.ConnectOptions{Database: &database}))
	assert.Empty(t, sqlite.ConnectionString(client.ConnectOptions{Host: "ignored", Port: 5656}))
}

// TestRegistered verifies that importing this package registers the driver.
func TestRegistered(t *testing.T) {
	cl, err := client.New(sqlite.DriverName)
	require.NoError(t, err)
	assert.Equal(t, sqlite.DriverName, cl.Name())
}
