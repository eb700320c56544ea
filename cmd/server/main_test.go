// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/ideacanvas-mcp/internal/app"
	"github.com/tejzpr/ideacanvas-mcp/internal/config"
	"github.com/tejzpr/ideacanvas-mcp/internal/kv"
	"github.com/tejzpr/ideacanvas-mcp/internal/storage/local"
	"go.uber.org/zap"
)

func TestGetEnv_FirstNonEmpty(t *testing.T) {
	t.Setenv("IDEACANVAS_TEST_A", "")
	t.Setenv("IDEACANVAS_TEST_B", "b")

	assert.Equal(t, "b", getEnv("IDEACANVAS_TEST_A", "IDEACANVAS_TEST_B"))
	assert.Equal(t, "", getEnv("IDEACANVAS_TEST_UNSET"))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CANVAS_MODE", "remote")
	t.Setenv("DB_DSN", "postgres://localhost/canvas")
	t.Setenv("SUPABASE_KEY", "anon-key-0123456789")
	t.Setenv("PURGE_INTERVAL", "5")

	cfg := config.DefaultConfig()
	notes := applyEnvOverrides(cfg)

	assert.Equal(t, config.ModeRemote, cfg.Storage.Mode)
	assert.Equal(t, "postgres://localhost/canvas", cfg.Remote.PostgresDSN)
	assert.Equal(t, "anon-key-0123456789", cfg.Remote.SupabaseKey)
	assert.Equal(t, 5, cfg.Purge.IdleIntervalMinutes)
	for _, n := range notes {
		assert.NotContains(t, n, "postgres://", "secrets stay out of the log")
		assert.NotContains(t, n, "anon-key-0123456789")
	}
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	applyCLIOverrides(cfg, flags{
		localBackend:  kv.BackendBadger,
		localPath:     "/tmp/canvas-badger",
		purgeInterval: 0,
	})

	assert.Equal(t, kv.BackendBadger, cfg.Local.Backend)
	assert.Equal(t, "/tmp/canvas-badger", cfg.Local.BadgerDir)
	assert.Equal(t, 0, cfg.Purge.IdleIntervalMinutes)

	before := cfg.Purge.IdleIntervalMinutes
	applyCLIOverrides(cfg, flags{purgeInterval: -1})
	assert.Equal(t, before, cfg.Purge.IdleIntervalMinutes, "negative means unset")
}

func TestBuildBackend_Modes(t *testing.T) {
	dir := t.TempDir()
	store, err := kv.NewSQLiteStore(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer store.Close()
	cache := local.New(store)

	cfg := config.DefaultConfig()
	backend, closer, err := buildBackend(context.Background(), cfg, cache, false, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.Equal(t, app.ModeLocal, backend.Mode())

	t.Setenv("ACCESSING_USER", "alice")
	cfg.Storage.Mode = config.ModeRemote
	cfg.Remote.Type = config.RemoteSQLite
	cfg.Remote.SQLitePath = filepath.Join(dir, "remote.db")
	backend, closer, err = buildBackend(context.Background(), cfg, cache, true, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()
	assert.Equal(t, app.ModeRemote, backend.Mode())

	g, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, g.Concepts)
}

func TestBuildBackend_ConfiguredUserOwnsRows(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := kv.NewSQLiteStore(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer store.Close()
	cache := local.New(store)

	t.Setenv("CANVAS_USER_ID", "bob")
	cfg := config.DefaultConfig()
	cfg.Storage.Mode = config.ModeRemote
	cfg.Remote.Type = config.RemoteSQLite
	cfg.Remote.SQLitePath = filepath.Join(dir, "remote.db")
	applyEnvOverrides(cfg)
	require.Equal(t, "bob", cfg.Auth.UserID)

	backend, closer, err := buildBackend(ctx, cfg, cache, false, zap.NewNop())
	require.NoError(t, err)
	_, err = backend.CreateConcept(ctx, "Bob's canvas")
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	cfg.Auth.UserID = "carol"
	backend, closer, err = buildBackend(ctx, cfg, cache, false, zap.NewNop())
	require.NoError(t, err)
	g, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, g.Concepts, "another user sees nothing")
	require.NoError(t, closer.Close())

	cfg.Auth.UserID = "bob"
	backend, closer, err = buildBackend(ctx, cfg, cache, false, zap.NewNop())
	require.NoError(t, err)
	defer closer.Close()
	g, err = backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, g.Concepts, 1)
	assert.Equal(t, "Bob's canvas", g.Concepts[0].Name)
}
