package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/riptide/pkg/conn/support/util/exception"
	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"

	"go.uber.org/fx"
)

// Package config provides utilities for loading and managing riptide configuration
// from YAML sources and environment variables.

const moduleName = "config"

// envPrefix is the prefix of every environment variable consulted by the loader.
const envPrefix = "RIPTIDE_"

// connectionsEnvPrefix covers per-target overrides, e.g. RIPTIDE_CONNECTIONS_DEFAULT_HOST.
const connectionsEnvPrefix = envPrefix + "CONNECTIONS_"

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig // EmbeddedConfig contains the raw bytes of the configuration file.
	EnvFilePath    string         `name:"envFilePath" optional:"true"` // EnvFilePath is the path to the .env file, if any.
}

// loadConfig loads configuration from embedded YAML and environment variables.
// Precedence, lowest to highest: defaults, YAML, environment variables.
// This function is intended to be called only once during application startup.
func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			logger.Debugf(".env file not found or could not be loaded: %v", err)
		}
	}

	cfg := NewConfig()

	if len(embeddedConfig) > 0 {
		expander := NewOsEnvironmentExpander()
		expanded, err := expander.Expand(embeddedConfig)
		if err != nil {
			return nil, exception.NewConnError(moduleName, "failed to expand environment variables in embedded config", err, false)
		}

		var yamlConfig Config
		if err := yaml.Unmarshal(expanded, &yamlConfig); err != nil {
			return nil, exception.NewConnError(moduleName, "failed to unmarshal embedded config", err, false)
		}

		mergeConfig(cfg, &yamlConfig)
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, exception.NewConnError(moduleName, "failed to load config from environment variables", err, false)
	}

	loadConnectionsFromEnv(cfg.Riptide.Connections)

	return cfg, nil
}

// NewConfigProvider is an Fx provider that loads and provides *Config.
// It initializes the configuration by loading defaults, merging from embedded
// YAML, and overriding with environment variables, then sets the global log level.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	cfg, err := loadConfig(params.EnvFilePath, params.EmbeddedConfig)
	if err != nil {
		return nil, err
	}

	// Set global configuration
	GlobalConfig = cfg

	logger.SetLogLevel(cfg.Riptide.System.Logging.Level)
	logger.Infof("Log level set to: %s", cfg.Riptide.System.Logging.Level)

	return cfg, nil
}

// LoadConfig loads configuration from configuration files and environment variables.
// This function is expected to be called only once during application startup.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig)
}

// mergeConfig performs a merge from sourceConfig into destConfig.
// Values in sourceConfig overwrite corresponding values in destConfig
// when they are not zero values for their type.
func mergeConfig(destConfig, sourceConfig *Config) {
	mergeRiptideConfig(&destConfig.Riptide, &sourceConfig.Riptide)
}

// mergeRiptideConfig merges source into dest.
func mergeRiptideConfig(dest, source *RiptideConfig) {
	if source.System.Logging.Level != "" {
		dest.System.Logging.Level = source.System.Logging.Level
	}
	if source.DefaultConnection != "" {
		dest.DefaultConnection = source.DefaultConnection
	}

	if source.Connections != nil {
		if dest.Connections == nil {
			dest.Connections = make(map[string]interface{})
		}
		for key, value := range source.Connections {
			dest.Connections[key] = value
		}
	}
}

// loadStructFromEnv recursively loads configuration values into a struct from
// environment variables, using the "yaml" tag to derive the variable name
// (e.g. RIPTIDE_SYSTEM_LOGGING_LEVEL, RIPTIDE_DEFAULT_CONNECTION).
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		yamlTag = strings.SplitN(yamlTag, ",", 2)[0]
		envVarName := strings.ToUpper(prefix + yamlTag)

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		}

		// The connections map is handled separately by loadConnectionsFromEnv.
		if field.Kind() == reflect.Map {
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}

		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

// loadConnectionsFromEnv merges per-target overrides into the raw connections map.
// Example: RIPTIDE_CONNECTIONS_METADATA_POOL_MAX_SIZE=8 sets the "pool_max_size"
// key of the "metadata" entry. Values stay strings; the factory provider's
// weakly-typed decode converts them.
func loadConnectionsFromEnv(connections map[string]interface{}) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, connectionsEnvPrefix) {
			continue
		}

		keyPartWithValue := strings.TrimPrefix(env, connectionsEnvPrefix)
		parts := strings.SplitN(keyPartWithValue, "=", 2)
		if len(parts) != 2 {
			continue
		}
		envValue := parts[1]

		// NAME_FIELD, where FIELD may itself contain underscores (POOL_MIN_SIZE).
		nameAndField := strings.SplitN(parts[0], "_", 2)
		if len(nameAndField) != 2 {
			continue
		}
		name := strings.ToLower(nameAndField[0])
		fieldKey := strings.ToLower(nameAndField[1])

		raw, ok := connections[name].(map[string]interface{})
		if !ok {
			raw = make(map[string]interface{})
		}
		raw[fieldKey] = envValue
		connections[name] = raw
	}
}

// setField sets the value of a reflect.Value field based on its kind.
// It handles string, *string, int, float, and bool types.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.String {
		field.Set(reflect.ValueOf(&value))
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	}
	return nil
}
