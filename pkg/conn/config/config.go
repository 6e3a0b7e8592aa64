package config

// Package config provides structures and utilities for managing riptide configuration.

import (
	"fmt"
	"time"
)

// EmbeddedConfig holds the content of the configuration file, typically passed from main.go.
// This is used when loading configuration from an embedded source (e.g., a compiled binary).
type EmbeddedConfig []byte

// Default connection parameters applied by NewConnectionConfig.
const (
	DefaultDriver      = "postgres"
	DefaultHost        = "localhost"
	DefaultPort        = 5656
	DefaultTimeout     = 60
	DefaultPoolMinSize = 1
	DefaultPoolMaxSize = 1
)

// ConnectionConfig holds every parameter needed to reach one database target.
// Optional fields are pointers so that "unset" stays distinguishable from
// "set to the empty string".
type ConnectionConfig struct {
	// Driver names the registered client implementation (e.g., "postgres", "mysql", "sqlite").
	Driver string `yaml:"driver"`
	// DSN is an optional connection string; when set, it takes precedence over the discrete fields.
	DSN *string `yaml:"dsn,omitempty"`
	// Host is the database host address.
	Host string `yaml:"host"`
	// Port is the database port number.
	Port int `yaml:"port"`
	// Admin requests a maintenance-level connection where the driver supports one.
	Admin bool `yaml:"admin"`
	// User is the database user.
	User *string `yaml:"user,omitempty"`
	// Password is the database password. Sensitive: it must never be logged; use Redacted().
	Password *string `yaml:"password,omitempty"`
	// Database is the database name.
	Database *string `yaml:"database,omitempty"`
	// Timeout is the connect timeout in seconds.
	Timeout int `yaml:"timeout"`
	// PoolMinSize is the minimum number of pooled connections (POOL mode).
	PoolMinSize int `yaml:"pool_min_size"`
	// PoolMaxSize is the maximum number of pooled connections (POOL mode).
	PoolMaxSize int `yaml:"pool_max_size"`
	// Mode is the stored connection mode, used when Obtain is called without an override.
	Mode Mode `yaml:"mode,omitempty"`
}

// NewConnectionConfig returns a ConnectionConfig populated with defaults:
// postgres driver, localhost:5656, 60 second timeout, pool sized 1..1.
func NewConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Driver:      DefaultDriver,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Timeout:     DefaultTimeout,
		PoolMinSize: DefaultPoolMinSize,
		PoolMaxSize: DefaultPoolMaxSize,
	}
}

// Validate checks the structural invariants of the configuration:
// port > 0, timeout >= 0, pool_max_size >= pool_min_size >= 1 and,
// if a mode is stored, that it is one of the three recognized values.
func (c *ConnectionConfig) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("port must be positive, got %d", c.Port)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	if c.PoolMinSize < 1 {
		return fmt.Errorf("pool_min_size must be at least 1, got %d", c.PoolMinSize)
	}
	if c.PoolMaxSize < c.PoolMinSize {
		return fmt.Errorf("pool_max_size (%d) must not be smaller than pool_min_size (%d)", c.PoolMaxSize, c.PoolMinSize)
	}
	if c.Mode != "" && !c.Mode.Valid() {
		return &InvalidModeError{Value: string(c.Mode)}
	}
	return nil
}

// ConnectTimeout returns the configured connect timeout as a time.Duration.
// A zero timeout means the drivers apply no deadline of their own.
func (c *ConnectionConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Redacted renders the configuration for logging with the password masked.
// The password value itself never reaches the logger.
func (c *ConnectionConfig) Redacted() string {
	user := "<unset>"
	if c.User != nil {
		user = *c.User
	}
	database := "<unset>"
	if c.Database != nil {
		database = *c.Database
	}
	password := "<unset>"
	if c.Password != nil {
		password = "****"
	}
	dsn := "<unset>"
	if c.DSN != nil {
		dsn = "****"
	}
	return fmt.Sprintf("driver=%s dsn=%s host=%s port=%d admin=%t user=%s password=%s database=%s timeout=%ds pool=%d..%d mode=%s",
		c.Driver, dsn, c.Host, c.Port, c.Admin, user, password, database, c.Timeout, c.PoolMinSize, c.PoolMaxSize, c.Mode)
}

// String returns a pointer to v, for filling the optional fields inline.
func String(v string) *string {
	return &v
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Logging is the logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// RiptideConfig holds all configuration under the "riptide" top-level key.
type RiptideConfig struct {
	// System contains system-wide configurations.
	System SystemConfig `yaml:"system"`
	// DefaultConnection names the entry in Connections used when no name is given.
	DefaultConnection string `yaml:"default_connection"`
	// Connections holds the raw per-target connection configurations, keyed by name.
	// Entries are decoded into ConnectionConfig on demand by the factory provider.
	Connections map[string]interface{} `yaml:"connections"`
}

// Config is the root structure for the entire library configuration.
type Config struct {
	// Riptide contains the top-level configuration.
	Riptide RiptideConfig `yaml:"riptide"`
	// EmbeddedConfig holds configuration loaded from an embedded source, not from YAML.
	EmbeddedConfig EmbeddedConfig `yaml:"-"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	cfg := &Config{
		Riptide: RiptideConfig{
			System: SystemConfig{
				Logging: LoggingConfig{Level: "INFO"},
			},
			DefaultConnection: "default",
		},
	}

	// Initialized empty so YAML merge and env overrides have a map to fill.
	cfg.Riptide.Connections = map[string]interface{}{}

	return cfg
}

// GlobalConfig is a pointer to the configuration instance shared across the application.
// It is expected to be set via fx.Supply or fx.Provide.
var GlobalConfig *Config
