// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CanvasModels returns the remote store tables in parent-first order
func CanvasModels() []interface{} {
	return []interface{}{
		&ConceptRow{},
		&SessionRow{},
		&QuestionRow{},
		&IdeaRow{},
	}
}

// Migrate creates the remote store tables and their indexes
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(CanvasModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := CreateIndexes(db); err != nil {
		return err
	}
	return nil
}

// MigrateKV creates the table backing the local key/value cache
func MigrateKV(db *gorm.DB) error {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return fmt.Errorf("failed to run kv migrations: %w", err)
	}
	return nil
}

// CreateIndexes creates the composite indexes used by user scoped lookups
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		columns []string
		name    string
	}{
		{
			table:   "concepts",
			columns: []string{"user_id", "created_at"},
			name:    "idx_concepts_user_created",
		},
		{
			table:   "sessions",
			columns: []string{"user_id", "concept_id"},
			name:    "idx_sessions_user_concept",
		},
		{
			table:   "questions",
			columns: []string{"user_id", "session_id"},
			name:    "idx_questions_user_session",
		},
		{
			table:   "ideas",
			columns: []string{"user_id", "question_id"},
			name:    "idx_ideas_user_question",
		},
		{
			table:   "ideas",
			columns: []string{"user_id", "color"},
			name:    "idx_ideas_user_color",
		},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			idx.name,
			idx.table,
			strings.Join(idx.columns, ", "))

		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
