// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConceptRow is a top-level canvas owned by a user
type ConceptRow struct {
	ID        string       `gorm:"primaryKey;size:64" json:"id"`
	UserID    string       `gorm:"index;not null;size:128" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	Sessions  []SessionRow `gorm:"foreignKey:ConceptID" json:"sessions,omitempty"`
}

// TableName specifies the table name for ConceptRow
func (ConceptRow) TableName() string {
	return "concepts"
}

// BeforeCreate assigns an id when the caller did not provide one
func (r *ConceptRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// SessionRow is one brainstorming sitting within a concept
type SessionRow struct {
	ID        string        `gorm:"primaryKey;size:64" json:"id"`
	UserID    string        `gorm:"index;not null;size:128" json:"user_id"`
	ConceptID string        `gorm:"index;not null;size:64" json:"concept_id"`
	Name      string        `gorm:"not null" json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Questions []QuestionRow `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
}

// TableName specifies the table name for SessionRow
func (SessionRow) TableName() string {
	return "sessions"
}

// BeforeCreate assigns an id when the caller did not provide one
func (r *SessionRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// QuestionRow is a prompt inside a session
type QuestionRow struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"index;not null;size:128" json:"user_id"`
	SessionID string    `gorm:"index;not null;size:64" json:"session_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Ideas     []IdeaRow `gorm:"foreignKey:QuestionID" json:"ideas,omitempty"`
}

// TableName specifies the table name for QuestionRow
func (QuestionRow) TableName() string {
	return "questions"
}

// BeforeCreate assigns an id when the caller did not provide one
func (r *QuestionRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IdeaRow is a colored answer to a question
type IdeaRow struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	UserID     string    `gorm:"index;not null;size:128" json:"user_id"`
	QuestionID string    `gorm:"index;not null;size:64" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Color      string    `gorm:"not null;default:grey;size:16" json:"color"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for IdeaRow
func (IdeaRow) TableName() string {
	return "ideas"
}

// BeforeCreate assigns an id when the caller did not provide one
func (r *IdeaRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// KVEntry is one key of the local durable cache
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for KVEntry
func (KVEntry) TableName() string {
	return "canvas_kv"
}
