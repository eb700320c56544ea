// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore keeps keys in the canvas_kv table of a sqlite file
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the sqlite file at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite kv path is required")
	}
	db, err := database.Connect(&database.Config{
		Type:       "sqlite",
		SQLitePath: path,
		LogLevel:   logger.Silent,
	})
	if err != nil {
		return nil, err
	}
	if err := database.MigrateKV(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreWithDB uses an already connected database
func NewSQLiteStoreWithDB(db *gorm.DB) (*SQLiteStore, error) {
	if err := database.MigrateKV(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the value stored under key
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry database.KVEntry
	err := s.db.WithContext(ctx).Where(&database.KVEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Put upserts key in a single statement
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	entry := database.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&database.KVEntry{Key: key}).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return database.Close(s.db)
}
