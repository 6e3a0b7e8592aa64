package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/conn/config"
)

const loaderYAML = `
riptide:
  system:
    logging:
      level: DEBUG
  default_connection: primary
  connections:
    primary:
      driver: postgres
      host: db.internal
      port: 5656
      user: edgedb
      password: ${LOADER_TEST_PASSWORD}
      database: edgedb
      mode: POOL
      pool_min_size: 2
      pool_max_size: 8
    audit:
      driver: sqlite
      database: /var/lib/audit.db
`

// TestLoadConfig_FromYAML verifies defaults-then-YAML merge ordering and
// environment variable expansion inside the document.
func TestLoadConfig_FromYAML(t *testing.T) {
	t.Setenv("LOADER_TEST_PASSWORD", "hunter2")

	cfg, err := config.LoadConfig("", config.EmbeddedConfig(loaderYAML))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Riptide.System.Logging.Level)
	assert.Equal(t, "primary", cfg.Riptide.DefaultConnection)
	require.Len(t, cfg.Riptide.Connections, 2)

	primary, ok := cfg.Riptide.Connections["primary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "db.internal", primary["host"])
	assert.Equal(t, "hunter2", primary["password"])
}

// TestLoadConfig_EnvOverridesYAML verifies that environment variables take
// precedence over YAML values.
func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	t.Setenv("LOADER_TEST_PASSWORD", "hunter2")
	t.Setenv("RIPTIDE_SYSTEM_LOGGING_LEVEL", "WARN")
	t.Setenv("RIPTIDE_DEFAULT_CONNECTION", "audit")

	cfg, err := config.LoadConfig("", config.EmbeddedConfig(loaderYAML))
	require.NoError(t, err)

	assert.Equal(t, "WARN", cfg.Riptide.System.Logging.Level)
	assert.Equal(t, "audit", cfg.Riptide.DefaultConnection)
}

// TestLoadConfig_ConnectionEnvOverride verifies per-target overrides of the
// form RIPTIDE_CONNECTIONS_<NAME>_<FIELD>.
func TestLoadConfig_ConnectionEnvOverride(t *testing.T) {
	t.Setenv("LOADER_TEST_PASSWORD", "hunter2")
	t.Setenv("RIPTIDE_CONNECTIONS_PRIMARY_HOST", "failover.internal")
	t.Setenv("RIPTIDE_CONNECTIONS_PRIMARY_POOL_MAX_SIZE", "16")

	cfg, err := config.LoadConfig("", config.EmbeddedConfig(loaderYAML))
	require.NoError(t, err)

	primary, ok := cfg.Riptide.Connections["primary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "failover.internal", primary["host"])
	assert.Equal(t, "16", primary["pool_max_size"])
}

// TestLoadConfig_DefaultsWithoutYAML verifies loading with no embedded document.
func TestLoadConfig_DefaultsWithoutYAML(t *testing.T) {
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Riptide.System.Logging.Level)
	assert.Equal(t, "default", cfg.Riptide.DefaultConnection)
}
