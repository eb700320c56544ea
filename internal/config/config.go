// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".ideacanvas/configs"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.json"
	// DefaultDataDir holds the local cache files
	DefaultDataDir = ".ideacanvas/data"
)

// Load reads configuration from ~/.ideacanvas/configs/config.json
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configPath)

	// Set defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return loadFromDefaults(v)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, DefaultDataDir)

	v.SetDefault("storage.mode", ModeLocal)

	// Local cache defaults
	v.SetDefault("local.backend", "sqlite")
	v.SetDefault("local.sqlite_path", filepath.Join(dataDir, "canvas.db"))
	v.SetDefault("local.badger_dir", filepath.Join(dataDir, "badger"))
	v.SetDefault("local.redis_prefix", "ideacanvas:")

	// Remote defaults
	v.SetDefault("remote.type", RemotePostgres)
	v.SetDefault("remote.sqlite_path", filepath.Join(dataDir, "remote.db"))
	v.SetDefault("remote.timeout_seconds", 10)

	v.SetDefault("auth.type", AuthLocal)

	// Breaker defaults
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval_seconds", 60)
	v.SetDefault("breaker.timeout_seconds", 30)
	v.SetDefault("breaker.failure_threshold", 0.6)
	v.SetDefault("breaker.min_requests", 3)

	v.SetDefault("purge.idle_interval_minutes", 30)
	v.SetDefault("purge.on_shutdown", true)

	v.SetDefault("log.mode", LogProduction)
	v.SetDefault("log.level", "info")
}

// loadFromDefaults creates a config from default values
func loadFromDefaults(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid. It is exported so main can
// re-check after applying environment and flag overrides.
func Validate(cfg *Config) error {
	cfg.Storage.Mode = strings.ToLower(strings.TrimSpace(cfg.Storage.Mode))
	if cfg.Storage.Mode == "" {
		cfg.Storage.Mode = ModeLocal
	}
	if !isValidType(cfg.Storage.Mode, ValidModes()) {
		return fmt.Errorf("storage.mode must be 'local' or 'remote', got '%s'", cfg.Storage.Mode)
	}

	// Validate local cache
	if !isValidType(cfg.Local.Backend, ValidLocalBackends()) {
		return fmt.Errorf("local.backend must be one of %v, got '%s'", ValidLocalBackends(), cfg.Local.Backend)
	}
	switch cfg.Local.Backend {
	case "sqlite":
		if cfg.Local.SQLitePath == "" {
			return fmt.Errorf("local.sqlite_path is required when backend is 'sqlite'")
		}
	case "badger":
		if cfg.Local.BadgerDir == "" {
			return fmt.Errorf("local.badger_dir is required when backend is 'badger'")
		}
	case "redis":
		if cfg.Local.RedisURL == "" {
			return fmt.Errorf("local.redis_url is required when backend is 'redis'")
		}
	}

	if cfg.Auth.Type == "" {
		cfg.Auth.Type = AuthLocal
	}
	if cfg.Auth.Type != AuthLocal && cfg.Auth.Type != AuthSupabase {
		return fmt.Errorf("auth.type must be 'local' or 'supabase', got '%s'", cfg.Auth.Type)
	}

	// Remote settings only matter in remote mode
	if cfg.Storage.Mode == ModeRemote {
		if err := validateRemote(cfg); err != nil {
			return err
		}
	}

	if cfg.Breaker.FailureThreshold <= 0 || cfg.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("breaker.failure_threshold must be in (0, 1], got %v", cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.TimeoutSeconds < 1 {
		return fmt.Errorf("breaker.timeout_seconds must be at least 1, got %d", cfg.Breaker.TimeoutSeconds)
	}

	// Zero disables the idle purge
	if cfg.Purge.IdleIntervalMinutes < 0 {
		return fmt.Errorf("purge.idle_interval_minutes must not be negative, got %d", cfg.Purge.IdleIntervalMinutes)
	}

	if cfg.Log.Mode != LogProduction && cfg.Log.Mode != LogDevelopment {
		return fmt.Errorf("log.mode must be 'production' or 'development', got '%s'", cfg.Log.Mode)
	}

	return nil
}

func validateRemote(cfg *Config) error {
	if !isValidType(cfg.Remote.Type, ValidRemoteTypes()) {
		return fmt.Errorf("remote.type must be one of %v, got '%s'", ValidRemoteTypes(), cfg.Remote.Type)
	}
	switch cfg.Remote.Type {
	case RemotePostgres:
		if cfg.Remote.PostgresDSN == "" {
			return fmt.Errorf("remote.postgres_dsn is required when type is 'postgres'")
		}
	case RemoteSQLite:
		if cfg.Remote.SQLitePath == "" {
			return fmt.Errorf("remote.sqlite_path is required when type is 'sqlite'")
		}
	case RemoteSupabase:
		if cfg.Remote.SupabaseURL == "" || cfg.Remote.SupabaseKey == "" {
			return fmt.Errorf("remote.supabase_url and remote.supabase_key are required when type is 'supabase'")
		}
	}
	if cfg.Auth.Type == AuthSupabase && cfg.Auth.AccessToken == "" {
		return fmt.Errorf("auth.access_token is required when auth.type='supabase'")
	}
	if cfg.Remote.TimeoutSeconds < 1 {
		return fmt.Errorf("remote.timeout_seconds must be at least 1, got %d", cfg.Remote.TimeoutSeconds)
	}
	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, DefaultDataDir)

	return &Config{
		Storage: StorageConfig{Mode: ModeLocal},
		Local: LocalConfig{
			Backend:     "sqlite",
			SQLitePath:  filepath.Join(dataDir, "canvas.db"),
			BadgerDir:   filepath.Join(dataDir, "badger"),
			RedisPrefix: "ideacanvas:",
		},
		Remote: RemoteConfig{
			Type:           RemotePostgres,
			SQLitePath:     filepath.Join(dataDir, "remote.db"),
			TimeoutSeconds: 10,
		},
		Auth: AuthConfig{Type: AuthLocal},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			IntervalSeconds:  60,
			TimeoutSeconds:   30,
			FailureThreshold: 0.6,
			MinRequests:      3,
		},
		Purge: PurgeConfig{
			IdleIntervalMinutes: 30,
			OnShutdown:          true,
		},
		Log: LogConfig{Mode: LogProduction, Level: "info"},
	}
}
