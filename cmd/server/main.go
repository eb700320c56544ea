// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/app"
	"github.com/tejzpr/ideacanvas-mcp/internal/auth"
	"github.com/tejzpr/ideacanvas-mcp/internal/config"
	"github.com/tejzpr/ideacanvas-mcp/internal/database"
	"github.com/tejzpr/ideacanvas-mcp/internal/kv"
	"github.com/tejzpr/ideacanvas-mcp/internal/logging"
	"github.com/tejzpr/ideacanvas-mcp/internal/remote"
	"github.com/tejzpr/ideacanvas-mcp/internal/server"
	"github.com/tejzpr/ideacanvas-mcp/internal/storage/local"
	"github.com/tejzpr/ideacanvas-mcp/pkg/scheduler"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// Version is set at build time via ldflags (e.g. goreleaser -X main.Version={{.Version}}).
var Version string

// shutdownPurgeTimeout bounds the final purge when the process exits
const shutdownPurgeTimeout = 10 * time.Second

// flags holds command-line overrides; empty values leave the config alone
type flags struct {
	configPath        string
	mode              string
	localBackend      string
	localPath         string
	remoteType        string
	dbDSN             string
	withAccessingUser bool
	logMode           string
	purgeInterval     int
	showVersion       bool
}

func main() {
	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	// Redirect all logging to stderr
	log.SetOutput(os.Stderr)

	f := parseFlags()
	if f.showVersion {
		fmt.Fprintln(os.Stderr, versionString())
		return
	}

	cfg, notes := loadConfig(f)

	logger, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	for _, n := range notes {
		logger.Info(n)
	}

	if err := run(cfg, f.withAccessingUser, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config file")
	flag.StringVar(&f.mode, "mode", "", "Storage mode (local or remote)")
	flag.StringVar(&f.localBackend, "local-backend", "", "Local cache backend (sqlite, badger or redis)")
	flag.StringVar(&f.localPath, "local-path", "", "Local cache path (sqlite file or badger directory)")
	flag.StringVar(&f.remoteType, "remote-type", "", "Remote store type (postgres, sqlite or supabase)")
	flag.StringVar(&f.dbDSN, "db-dsn", "", "Remote database DSN (for postgres)")
	flag.BoolVar(&f.withAccessingUser, "with-accessinguser", false, "Use ACCESSING_USER env var for user identity")
	flag.StringVar(&f.logMode, "log-mode", "", "Log mode (production or development)")
	flag.IntVar(&f.purgeInterval, "purge-interval", -1, "Minutes between idle grey purges (0 disables)")
	flag.BoolVar(&f.showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "IdeaCanvas MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Server Mode:\n")
		fmt.Fprintf(os.Stderr, "  %s                          Start MCP server (stdio), canvas kept in the local cache\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode remote            Start MCP server (stdio) backed by the remote store\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --with-accessinguser     Own remote rows as ACCESSING_USER instead of whoami\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CANVAS_MODE            Storage mode (local or remote)\n")
		fmt.Fprintf(os.Stderr, "  LOCAL_BACKEND          Local cache backend\n")
		fmt.Fprintf(os.Stderr, "  REDIS_URL              Redis URL (for the redis cache)\n")
		fmt.Fprintf(os.Stderr, "  REMOTE_TYPE            Remote store type\n")
		fmt.Fprintf(os.Stderr, "  DB_DSN                 PostgreSQL connection string\n")
		fmt.Fprintf(os.Stderr, "  SUPABASE_URL           Supabase project URL\n")
		fmt.Fprintf(os.Stderr, "  SUPABASE_KEY           Supabase API key\n")
		fmt.Fprintf(os.Stderr, "  SUPABASE_ACCESS_TOKEN  Access token of the signed-in user\n")
		fmt.Fprintf(os.Stderr, "  ACCESSING_USER         Username (required with --with-accessinguser)\n")
		fmt.Fprintf(os.Stderr, "  CANVAS_USER_ID         Fixed owning user for local auth\n")
		fmt.Fprintf(os.Stderr, "  LOG_MODE, LOG_LEVEL    Logger settings\n")
		fmt.Fprintf(os.Stderr, "  PURGE_INTERVAL         Minutes between idle grey purges\n")
	}

	flag.Parse()
	return f
}

func versionString() string {
	if Version == "" {
		return server.Name + " " + server.Version
	}
	return server.Name + " " + Version
}

// loadConfig resolves file, env and flag settings. The logger does not exist
// yet, so decisions are returned as notes to be logged afterwards.
func loadConfig(f flags) (*config.Config, []string) {
	var notes []string
	var cfg *config.Config
	var err error

	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config from %s: %v", f.configPath, err)
			log.Println("Using defaults")
			cfg = config.DefaultConfig()
		} else {
			notes = append(notes, "Loaded configuration from "+f.configPath)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			log.Printf("Warning: Failed to load default config: %v", err)
			log.Println("Using built-in defaults")
			cfg = config.DefaultConfig()
		}
	}

	notes = append(notes, applyEnvOverrides(cfg)...)
	notes = append(notes, applyCLIOverrides(cfg, f)...)

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg, notes
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *config.Config) []string {
	var notes []string

	if mode := getEnv("CANVAS_MODE", "IDEACANVAS_MODE"); mode != "" {
		cfg.Storage.Mode = mode
		notes = append(notes, "Storage mode from ENV: "+mode)
	}
	if backend := getEnv("LOCAL_BACKEND", "IDEACANVAS_LOCAL_BACKEND"); backend != "" {
		cfg.Local.Backend = backend
		notes = append(notes, "Local backend from ENV: "+backend)
	}
	if redisURL := getEnv("REDIS_URL", "IDEACANVAS_REDIS_URL"); redisURL != "" {
		cfg.Local.RedisURL = redisURL
		notes = append(notes, "Redis URL from ENV (hidden)")
	}
	if remoteType := getEnv("REMOTE_TYPE", "IDEACANVAS_REMOTE_TYPE"); remoteType != "" {
		cfg.Remote.Type = remoteType
		notes = append(notes, "Remote type from ENV: "+remoteType)
	}
	if dsn := getEnv("DB_DSN", "IDEACANVAS_DB_DSN"); dsn != "" {
		cfg.Remote.PostgresDSN = dsn
		notes = append(notes, "Database DSN from ENV (hidden)")
	}
	if url := getEnv("SUPABASE_URL"); url != "" {
		cfg.Remote.SupabaseURL = url
		notes = append(notes, "Supabase URL from ENV: "+url)
	}
	if key := getEnv("SUPABASE_KEY", "SUPABASE_ANON_KEY"); key != "" {
		cfg.Remote.SupabaseKey = key
		notes = append(notes, "Supabase key from ENV: "+logging.Redact(key))
	}
	if user := getEnv("CANVAS_USER_ID", "IDEACANVAS_USER_ID"); user != "" {
		cfg.Auth.UserID = user
		notes = append(notes, "Owning user from ENV: "+user)
	}
	if token := getEnv("SUPABASE_ACCESS_TOKEN"); token != "" {
		cfg.Auth.AccessToken = token
		notes = append(notes, "Supabase access token from ENV (hidden)")
	}
	if mode := getEnv("LOG_MODE"); mode != "" {
		cfg.Log.Mode = mode
	}
	if level := getEnv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if interval := getEnv("PURGE_INTERVAL"); interval != "" {
		if minutes, err := strconv.Atoi(interval); err == nil {
			cfg.Purge.IdleIntervalMinutes = minutes
			notes = append(notes, "Purge interval from ENV: "+interval)
		}
	}
	return notes
}

// applyCLIOverrides applies command-line flag overrides to configuration
func applyCLIOverrides(cfg *config.Config, f flags) []string {
	var notes []string

	if f.mode != "" {
		cfg.Storage.Mode = f.mode
		notes = append(notes, "Storage mode from CLI: "+f.mode)
	}
	if f.localBackend != "" {
		cfg.Local.Backend = f.localBackend
		notes = append(notes, "Local backend from CLI: "+f.localBackend)
	}
	if f.localPath != "" {
		switch cfg.Local.Backend {
		case kv.BackendBadger:
			cfg.Local.BadgerDir = f.localPath
		default:
			cfg.Local.SQLitePath = f.localPath
		}
		notes = append(notes, "Local cache path from CLI: "+f.localPath)
	}
	if f.remoteType != "" {
		cfg.Remote.Type = f.remoteType
		notes = append(notes, "Remote type from CLI: "+f.remoteType)
	}
	if f.dbDSN != "" {
		cfg.Remote.PostgresDSN = f.dbDSN
		notes = append(notes, "Database DSN from CLI (hidden)")
	}
	if f.logMode != "" {
		cfg.Log.Mode = f.logMode
	}
	if f.purgeInterval >= 0 {
		cfg.Purge.IdleIntervalMinutes = f.purgeInterval
		notes = append(notes, fmt.Sprintf("Purge interval from CLI: %d", f.purgeInterval))
	}
	return notes
}

// getEnv tries multiple environment variable names and returns the first non-empty value
func getEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// run wires the stores, controller, MCP server and idle purge, then serves
// stdio until the client disconnects or a signal arrives
func run(cfg *config.Config, useAccessingUser bool, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kv.Open(kv.Config{
		Backend:     cfg.Local.Backend,
		SQLitePath:  cfg.Local.SQLitePath,
		BadgerDir:   cfg.Local.BadgerDir,
		RedisURL:    cfg.Local.RedisURL,
		RedisPrefix: cfg.Local.RedisPrefix,
	})
	if err != nil {
		return fmt.Errorf("failed to open local cache: %w", err)
	}
	defer closeQuietly(store, "local cache", logger)
	logger.Info("local cache opened", zap.String("backend", cfg.Local.Backend))

	cache := local.New(store)

	backend, closer, err := buildBackend(ctx, cfg, cache, useAccessingUser, logger)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closeQuietly(closer, "remote store", logger)
	}

	notes := app.NewNotificationLog(0)
	controller := app.NewController(backend, notes, logger)
	if err := controller.Start(ctx); err != nil {
		// The canvas stays usable; the failure is already in the notification log
		logger.Warn("initial load failed", zap.Error(err))
	}

	mcpServer := server.NewMCPServer(controller, notes, logger)

	purgeJob := func(ctx context.Context) error {
		_, err := controller.Purge(ctx, app.TriggerHidden)
		return err
	}
	idle := scheduler.NewScheduler("grey-purge", cfg.Purge.IdleIntervalMinutes, purgeJob, logger)
	idle.Start()

	logger.Info("MCP server ready (stdio mode)",
		zap.String("mode", backend.Mode()),
		zap.String("version", versionString()))

	served := make(chan error, 1)
	go func() { served <- mcpServer.ServeStdio() }()

	var serveErr error
	select {
	case serveErr = <-served:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	idle.Stop()
	if cfg.Purge.OnShutdown {
		purgeCtx, cancel := context.WithTimeout(context.Background(), shutdownPurgeTimeout)
		if _, err := controller.Purge(purgeCtx, app.TriggerUnload); err != nil {
			logger.Warn("shutdown purge failed", zap.Error(err))
		}
		cancel()
	}

	if serveErr != nil {
		return fmt.Errorf("MCP server error: %w", serveErr)
	}
	return nil
}

// buildBackend returns the local backend, or a breaker-wrapped remote store
// owned by the resolved user. The closer releases the remote connection.
func buildBackend(ctx context.Context, cfg *config.Config, cache *local.Storage, useAccessingUser bool, logger *zap.Logger) (app.Backend, io.Closer, error) {
	if cfg.Storage.Mode != config.ModeRemote {
		return app.NewLocalBackend(cache), nil, nil
	}

	var authenticator auth.Authenticator
	switch cfg.Auth.Type {
	case config.AuthSupabase:
		a, err := auth.NewSupabaseAuthenticator(cfg.Remote.SupabaseURL, cfg.Remote.SupabaseKey, cfg.Auth.AccessToken)
		if err != nil {
			return nil, nil, err
		}
		authenticator = a
	default:
		if cfg.Auth.UserID != "" {
			authenticator = auth.StaticAuthenticator(cfg.Auth.UserID)
		} else if useAccessingUser {
			authenticator = auth.NewLocalAuthenticatorWithAccessingUser()
		} else {
			authenticator = auth.NewLocalAuthenticator()
		}
	}
	userID, err := authenticator.UserID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	logger.Info("user resolved", zap.String("auth", cfg.Auth.Type), zap.String("user_id", userID))

	var store remote.Store
	var closer io.Closer
	switch cfg.Remote.Type {
	case config.RemoteSupabase:
		s, err := remote.NewSupabaseStore(cfg.Remote.SupabaseURL, cfg.Remote.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		store = s
	default:
		db, err := database.Connect(&database.Config{
			Type:        cfg.Remote.Type,
			SQLitePath:  cfg.Remote.SQLitePath,
			PostgresDSN: cfg.Remote.PostgresDSN,
			LogLevel:    gormlogger.Silent, // CRITICAL: Silence GORM stdout output for MCP

			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("database migrations completed", zap.String("type", cfg.Remote.Type))
		store = remote.NewSQLStore(db)
		closer = closerFunc(func() error { return database.Close(db) })
	}

	breaker := remote.NewBreaker(store, remote.BreakerConfig{
		Name:             "remote-" + cfg.Remote.Type,
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         time.Duration(cfg.Breaker.IntervalSeconds) * time.Second,
		Timeout:          time.Duration(cfg.Breaker.TimeoutSeconds) * time.Second,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		MinRequests:      cfg.Breaker.MinRequests,
		RequestTimeout:   cfg.Remote.Timeout(),
	}, logger)

	return app.NewRemoteBackend(breaker, userID, cache, logger), closer, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func closeQuietly(c io.Closer, what string, logger *zap.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("failed to close "+what, zap.Error(err))
	}
}
