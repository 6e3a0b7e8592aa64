package factory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/client"
	"github.com/tigerroll/riptide/pkg/conn/config"
	"github.com/tigerroll/riptide/pkg/conn/factory"
)

// registerFakeDriver registers a fresh fakeClient under the given driver name
// and returns it for call-count assertions.
func registerFakeDriver(name string) *fakeClient {
	cl := &fakeClient{}
	client.Register(name, func() (client.Client, error) {
		return cl, nil
	})
	return cl
}

// newProviderConfig builds a root configuration with the given raw connection
// maps, as the YAML loader would produce them.
func newProviderConfig(defaultName string, connections map[string]interface{}) *config.Config {
	cfg := config.NewConfig()
	cfg.Riptide.DefaultConnection = defaultName
	cfg.Riptide.Connections = connections
	return cfg
}

// TestFactoryProvider_GetMemoizes verifies that repeated Get calls for the
// same target return the same Factory.
func TestFactoryProvider_GetMemoizes(t *testing.T) {
	registerFakeDriver("fake-memo")
	cfg := newProviderConfig("primary", map[string]interface{}{
		"primary": map[string]interface{}{
			"driver": "fake-memo",
			"mode":   "SYNC",
		},
	})
	p := factory.NewFactoryProvider(cfg)

	first, err := p.Get("primary")
	require.NoError(t, err)
	second, err := p.Get("primary")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

// TestFactoryProvider_Default verifies that Default resolves through the
// configured default connection name.
func TestFactoryProvider_Default(t *testing.T) {
	registerFakeDriver("fake-default")
	cfg := newProviderConfig("main", map[string]interface{}{
		"main": map[string]interface{}{
			"driver": "fake-default",
		},
	})
	p := factory.NewFactoryProvider(cfg)

	f, err := p.Default()
	require.NoError(t, err)

	byName, err := p.Get("main")
	require.NoError(t, err)
	assert.Same(t, f, byName)
}

// TestFactoryProvider_DecodesWeaklyTypedValues verifies that string values
// injected by environment overrides decode into typed configuration fields.
func TestFactoryProvider_DecodesWeaklyTypedValues(t *testing.T) {
	registerFakeDriver("fake-weak")
	cfg := newProviderConfig("primary", map[string]interface{}{
		"primary": map[string]interface{}{
			"driver":        "fake-weak",
			"host":          "db.internal",
			"port":          "5433",
			"user":          "app",
			"password":      "s3cret",
			"database":      "orders",
			"timeout":       "30",
			"pool_min_size": 2,
			"pool_max_size": "16",
			"mode":          "POOL",
		},
	})
	p := factory.NewFactoryProvider(cfg)

	f, err := p.Get("primary")
	require.NoError(t, err)

	got := f.Config()
	assert.Equal(t, "db.internal", got.Host)
	assert.Equal(t, 5433, got.Port)
	require.NotNil(t, got.User)
	assert.Equal(t, "app", *got.User)
	require.NotNil(t, got.Database)
	assert.Equal(t, "orders", *got.Database)
	assert.Equal(t, 30, got.Timeout)
	assert.Equal(t, 2, got.PoolMinSize)
	assert.Equal(t, 16, got.PoolMaxSize)
	assert.Equal(t, config.ModePool, got.Mode)
}

// TestFactoryProvider_UnknownTarget verifies the error for names missing from
// the connections map.
func TestFactoryProvider_UnknownTarget(t *testing.T) {
	cfg := newProviderConfig("primary", map[string]interface{}{})
	p := factory.NewFactoryProvider(cfg)

	_, err := p.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

// TestFactoryProvider_UnknownDriver verifies that an unregistered driver name
// fails factory creation.
func TestFactoryProvider_UnknownDriver(t *testing.T) {
	cfg := newProviderConfig("primary", map[string]interface{}{
		"primary": map[string]interface{}{
			"driver": "no-such-driver",
		},
	})
	p := factory.NewFactoryProvider(cfg)

	_, err := p.Get("primary")
	require.Error(t, err)
}

// TestFactoryProvider_InvalidStoredMode verifies that a bad stored mode is
// rejected when the factory is built, not on first Obtain.
func TestFactoryProvider_InvalidStoredMode(t *testing.T) {
	registerFakeDriver("fake-badmode")
	cfg := newProviderConfig("primary", map[string]interface{}{
		"primary": map[string]interface{}{
			"driver": "fake-badmode",
			"mode":   "sync",
		},
	})
	p := factory.NewFactoryProvider(cfg)

	_, err := p.Get("primary")
	require.Error(t, err)
}

// TestFactoryProvider_CloseAll verifies that CloseAll tears down every built
// factory's pool and empties the provider.
func TestFactoryProvider_CloseAll(t *testing.T) {
	cl := registerFakeDriver("fake-closeall")
	cfg := newProviderConfig("primary", map[string]interface{}{
		"primary": map[string]interface{}{
			"driver": "fake-closeall",
			"mode":   "POOL",
		},
	})
	p := factory.NewFactoryProvider(cfg)

	f, err := p.Get("primary")
	require.NoError(t, err)

	handle, err := f.Obtain(context.Background())
	require.NoError(t, err)
	_, err = handle.Await(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.CloseAll(context.Background()))
	require.NotNil(t, cl.lastPool)
	assert.True(t, cl.lastPool.closed.Load())

	// The provider rebuilds the factory on the next Get.
	rebuilt, err := p.Get("primary")
	require.NoError(t, err)
	assert.NotSame(t, f, rebuilt)
}
