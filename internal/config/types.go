// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Local   LocalConfig   `mapstructure:"local"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	Purge   PurgeConfig   `mapstructure:"purge"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects where the canvas lives
type StorageConfig struct {
	Mode string `mapstructure:"mode"` // "local" or "remote"
}

// LocalConfig holds the local cache settings. In remote mode the cache only
// keeps the theme and the pending-purge list.
type LocalConfig struct {
	Backend     string `mapstructure:"backend"` // "sqlite", "badger" or "redis"
	SQLitePath  string `mapstructure:"sqlite_path"`
	BadgerDir   string `mapstructure:"badger_dir"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// RemoteConfig holds the remote store connection settings
type RemoteConfig struct {
	Type           string `mapstructure:"type"` // "postgres", "sqlite" or "supabase"
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	SupabaseURL    string `mapstructure:"supabase_url"`
	SupabaseKey    string `mapstructure:"supabase_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout is the per-request deadline for remote calls
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// AuthConfig holds authentication type configuration
type AuthConfig struct {
	Type        string `mapstructure:"type"` // "local" or "supabase"
	AccessToken string `mapstructure:"access_token"`
	// UserID pins the owning user for local auth instead of the OS user
	UserID string `mapstructure:"user_id"`
}

// BreakerConfig holds the remote circuit breaker settings
type BreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	IntervalSeconds  int     `mapstructure:"interval_seconds"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	FailureThreshold float64 `mapstructure:"failure_threshold"`
	MinRequests      uint32  `mapstructure:"min_requests"`
}

// PurgeConfig controls when grey answers are removed
type PurgeConfig struct {
	IdleIntervalMinutes int  `mapstructure:"idle_interval_minutes"`
	OnShutdown          bool `mapstructure:"on_shutdown"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Mode  string `mapstructure:"mode"` // "production" or "development"
	Level string `mapstructure:"level"`
}

// Storage modes
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Remote store types
const (
	RemotePostgres = "postgres"
	RemoteSQLite   = "sqlite"
	RemoteSupabase = "supabase"
)

// Auth types
const (
	AuthLocal    = "local"
	AuthSupabase = "supabase"
)

// Log modes
const (
	LogProduction  = "production"
	LogDevelopment = "development"
)

// ValidModes returns all valid storage modes
func ValidModes() []string {
	return []string{ModeLocal, ModeRemote}
}

// ValidLocalBackends returns all valid local cache backends
func ValidLocalBackends() []string {
	return []string{"sqlite", "badger", "redis"}
}

// ValidRemoteTypes returns all valid remote store types
func ValidRemoteTypes() []string {
	return []string{RemotePostgres, RemoteSQLite, RemoteSupabase}
}

// isValidType is a generic helper to check if a type is in a list of valid types
func isValidType(aType string, validTypes []string) bool {
	for _, valid := range validTypes {
		if aType == valid {
			return true
		}
	}
	return false
}
