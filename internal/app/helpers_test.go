// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/database"
	"github.com/tejzpr/ideacanvas-mcp/internal/kv"
	"github.com/tejzpr/ideacanvas-mcp/internal/remote"
	"github.com/tejzpr/ideacanvas-mcp/internal/storage/local"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func sequentialIDs(prefix string) canvas.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newCache(t *testing.T) (*local.Storage, kv.Store) {
	t.Helper()
	store, err := kv.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return local.New(store,
		local.WithClock(func() time.Time { return testNow }),
		local.WithIDFunc(sequentialIDs("seed-"))), store
}

// newLocalController returns a started local-mode controller
func newLocalController(t *testing.T) (*Controller, *NotificationLog, *local.Storage) {
	t.Helper()
	cache, _ := newCache(t)
	backend := NewLocalBackend(cache).WithClock(func() time.Time { return testNow }, sequentialIDs("id-"))
	notes := NewNotificationLog(10)
	c := NewController(backend, notes, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))
	return c, notes, cache
}

func newRemoteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "remote.db"),
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// faultyStore fails the named operations and records which ones ran
type faultyStore struct {
	remote.Store
	fail  map[string]error
	calls []string
}

func newFaultyStore(next remote.Store) *faultyStore {
	return &faultyStore{Store: next, fail: map[string]error{}}
}

var errNetwork = errors.New("network unreachable")

func (f *faultyStore) check(op string) error {
	f.calls = append(f.calls, op)
	if err, ok := f.fail[op]; ok {
		return canvas.NewRemoteStoreError(op, err.Error(), err)
	}
	return nil
}

func (f *faultyStore) LoadGraph(ctx context.Context, userID string) (*canvas.Graph, error) {
	if err := f.check(remote.OpLoad); err != nil {
		return nil, err
	}
	return f.Store.LoadGraph(ctx, userID)
}

func (f *faultyStore) InsertConcept(ctx context.Context, userID, name string) (remote.Created, error) {
	if err := f.check(remote.OpAddConcept); err != nil {
		return remote.Created{}, err
	}
	return f.Store.InsertConcept(ctx, userID, name)
}

func (f *faultyStore) InsertSession(ctx context.Context, userID, conceptID, name string) (remote.Created, error) {
	if err := f.check(remote.OpAddSession); err != nil {
		return remote.Created{}, err
	}
	return f.Store.InsertSession(ctx, userID, conceptID, name)
}

func (f *faultyStore) UpdateIdeaColor(ctx context.Context, userID, id string, color canvas.Color) error {
	if err := f.check(remote.OpColorIdea); err != nil {
		return err
	}
	return f.Store.UpdateIdeaColor(ctx, userID, id, color)
}

func (f *faultyStore) DeleteConcept(ctx context.Context, userID, id string) error {
	if err := f.check(remote.OpDeleteConcept); err != nil {
		return err
	}
	return f.Store.DeleteConcept(ctx, userID, id)
}

func (f *faultyStore) DeleteQuestion(ctx context.Context, userID, id string) error {
	if err := f.check(remote.OpDeleteQuestion); err != nil {
		return err
	}
	return f.Store.DeleteQuestion(ctx, userID, id)
}

func (f *faultyStore) DeleteIdeas(ctx context.Context, userID string, ids []string) error {
	if err := f.check(remote.OpPurgeIdeas); err != nil {
		return err
	}
	return f.Store.DeleteIdeas(ctx, userID, ids)
}

func (f *faultyStore) called(op string) bool {
	for _, c := range f.calls {
		if c == op {
			return true
		}
	}
	return false
}

// newRemoteController returns a started remote-mode controller over a sqlite store
func newRemoteController(t *testing.T) (*Controller, *NotificationLog, *faultyStore, *local.Storage) {
	t.Helper()
	store := newFaultyStore(remote.NewSQLStore(newRemoteDB(t)))
	cache, _ := newCache(t)
	notes := NewNotificationLog(10)
	c := NewController(NewRemoteBackend(store, "alice", cache, zap.NewNop()), notes, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))
	return c, notes, store, cache
}
