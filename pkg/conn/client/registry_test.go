package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/client"
	_ "github.com/tigerroll/riptide/pkg/conn/client/drivers"
	"github.com/tigerroll/riptide/pkg/conn/config"
)

// stubClient is a minimal client.Client for registry tests.
type stubClient struct {
	name string
}

func (c *stubClient) Name() string { return c.name }
func (c *stubClient) Connect(ctx context.Context, opts client.ConnectOptions) (client.Connection, error) {
	return nil, errors.New("not implemented")
}
func (c *stubClient) NewPool(ctx context.Context, opts client.ConnectOptions, pool client.PoolOptions) (client.Pool, error) {
	return nil, errors.New("not implemented")
}

// TestRegistry_RegisterAndNew verifies the register/lookup round trip.
func TestRegistry_RegisterAndNew(t *testing.T) {
	client.Register("stub-basic", func() (client.Client, error) {
		return &stubClient{name: "stub-basic"}, nil
	})

	cl, err := client.New("stub-basic")
	require.NoError(t, err)
	assert.Equal(t, "stub-basic", cl.Name())
	assert.Contains(t, client.Drivers(), "stub-basic")
}

// TestRegistry_UnknownDriver verifies that looking up an unregistered driver
// fails with a message naming it.
func TestRegistry_UnknownDriver(t *testing.T) {
	_, err := client.New("never-registered")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never-registered")
}

// TestRegistry_FactoryError verifies that a factory failure propagates from
// New.
func TestRegistry_FactoryError(t *testing.T) {
	wantErr := errors.New("driver unavailable")
	client.Register("stub-broken", func() (client.Client, error) {
		return nil, wantErr
	})

	_, err := client.New("stub-broken")
	assert.ErrorIs(t, err, wantErr)
}

// TestRegistry_BuiltinDriversRegistered verifies that the shipped backends
// self-register through their init functions.
func TestRegistry_BuiltinDriversRegistered(t *testing.T) {
	drivers := client.Drivers()
	assert.Contains(t, drivers, "postgres")
	assert.Contains(t, drivers, "mysql")
	assert.Contains(t, drivers, "sqlite")
}

// TestOptionsFromConfig verifies the configuration to dial-options mapping.
func TestOptionsFromConfig(t *testing.T) {
	cfg := config.NewConnectionConfig()
	cfg.Host = "db.internal"
	cfg.Port = 5433
	cfg.User = config.String("app")
	cfg.Password = config.String("s3cret")
	cfg.Database = config.String("orders")
	cfg.Timeout = 30
	cfg.PoolMinSize = 2
	cfg.PoolMaxSize = 8
	cfg.Admin = true

	connectOpts, poolOpts := client.OptionsFromConfig(cfg)
	assert.Equal(t, "db.internal", connectOpts.Host)
	assert.Equal(t, 5433, connectOpts.Port)
	require.NotNil(t, connectOpts.User)
	assert.Equal(t, "app", *connectOpts.User)
	assert.True(t, connectOpts.Admin)
	assert.Equal(t, 30, int(connectOpts.ConnectTimeout.Seconds()))
	assert.Equal(t, 2, poolOpts.MinSize)
	assert.Equal(t, 8, poolOpts.MaxSize)
}
