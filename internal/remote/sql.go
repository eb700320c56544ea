// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package remote

import (
	"context"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/database"
	"gorm.io/gorm"
)

// SQLStore keeps the four collections in a relational database through gorm
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store on an open database. The schema must exist,
// see database.Migrate.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// LoadGraph reads every concept of the user with all descendants
func (s *SQLStore) LoadGraph(ctx context.Context, userID string) (*canvas.Graph, error) {
	scoped := func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).Order("created_at asc")
	}

	var rows []database.ConceptRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Preload("Sessions", scoped).
		Preload("Sessions.Questions", scoped).
		Preload("Sessions.Questions.Ideas", scoped).
		Find(&rows).Error
	if err != nil {
		return nil, storeError(OpLoad, err)
	}
	return graphFromRows(rows), nil
}

// InsertConcept creates a concept row
func (s *SQLStore) InsertConcept(ctx context.Context, userID, name string) (Created, error) {
	row := &database.ConceptRow{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return Created{}, storeError(OpAddConcept, err)
	}
	return Created{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// InsertSession creates a session under a concept owned by the user
func (s *SQLStore) InsertSession(ctx context.Context, userID, conceptID, name string) (Created, error) {
	row := &database.SessionRow{UserID: userID, ConceptID: conceptID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &database.ConceptRow{}, userID, conceptID); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return Created{}, storeError(OpAddSession, err)
	}
	return Created{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// InsertQuestion creates a question under a session owned by the user
func (s *SQLStore) InsertQuestion(ctx context.Context, userID, sessionID, text string) (Created, error) {
	row := &database.QuestionRow{UserID: userID, SessionID: sessionID, Text: text}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &database.SessionRow{}, userID, sessionID); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return Created{}, storeError(OpAddQuestion, err)
	}
	return Created{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// InsertIdea creates an idea under a question owned by the user
func (s *SQLStore) InsertIdea(ctx context.Context, userID, questionID, text string, color canvas.Color) (Created, error) {
	row := &database.IdeaRow{UserID: userID, QuestionID: questionID, Text: text, Color: string(color.Normalize())}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &database.QuestionRow{}, userID, questionID); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return Created{}, storeError(OpAddIdea, err)
	}
	return Created{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// UpdateConceptName renames a concept
func (s *SQLStore) UpdateConceptName(ctx context.Context, userID, id, name string) error {
	return storeError(OpRenameConcept, s.update(ctx, &database.ConceptRow{}, userID, id, "name", name))
}

// UpdateQuestionText edits a question
func (s *SQLStore) UpdateQuestionText(ctx context.Context, userID, id, text string) error {
	return storeError(OpEditQuestion, s.update(ctx, &database.QuestionRow{}, userID, id, "text", text))
}

// UpdateIdeaText edits an idea
func (s *SQLStore) UpdateIdeaText(ctx context.Context, userID, id, text string) error {
	return storeError(OpEditIdea, s.update(ctx, &database.IdeaRow{}, userID, id, "text", text))
}

// UpdateIdeaColor recolors an idea
func (s *SQLStore) UpdateIdeaColor(ctx context.Context, userID, id string, color canvas.Color) error {
	return storeError(OpColorIdea, s.update(ctx, &database.IdeaRow{}, userID, id, "color", string(color.Normalize())))
}

// DeleteConcept removes a concept, its sessions, their questions and ideas
// in one transaction
func (s *SQLStore) DeleteConcept(ctx context.Context, userID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessionIDs []string
		if err := tx.Model(&database.SessionRow{}).
			Where("user_id = ? AND concept_id = ?", userID, id).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if err := deleteSessionsTx(tx, userID, sessionIDs); err != nil {
			return err
		}
		return deleteOwned(tx, &database.ConceptRow{}, userID, id)
	})
	return storeError(OpDeleteConcept, err)
}

// DeleteSession removes a session with its questions and ideas
func (s *SQLStore) DeleteSession(ctx context.Context, userID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwned(tx, &database.SessionRow{}, userID, id); err != nil {
			return err
		}
		return deleteSessionsTx(tx, userID, []string{id})
	})
	return storeError(OpDeleteSession, err)
}

// DeleteQuestion removes the ideas of a question and then the question
func (s *SQLStore) DeleteQuestion(ctx context.Context, userID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND question_id = ?", userID, id).
			Delete(&database.IdeaRow{}).Error; err != nil {
			return err
		}
		return deleteOwned(tx, &database.QuestionRow{}, userID, id)
	})
	return storeError(OpDeleteQuestion, err)
}

// DeleteIdea removes one idea
func (s *SQLStore) DeleteIdea(ctx context.Context, userID, id string) error {
	return storeError(OpDeleteIdea, deleteOwned(s.db.WithContext(ctx), &database.IdeaRow{}, userID, id))
}

// DeleteIdeas removes many ideas at once. Ids not owned by the user are
// ignored so a stale pending-purge list never blocks the rest.
func (s *SQLStore) DeleteIdeas(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&database.IdeaRow{}).Error
	return storeError(OpPurgeIdeas, err)
}

func (s *SQLStore) update(ctx context.Context, model interface{}, userID, id, column string, value interface{}) error {
	result := s.db.WithContext(ctx).Model(model).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRow
	}
	return nil
}

// deleteSessionsTx removes ideas, questions and sessions, children first
func deleteSessionsTx(tx *gorm.DB, userID string, sessionIDs []string) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	var questionIDs []string
	if err := tx.Model(&database.QuestionRow{}).
		Where("user_id = ? AND session_id IN ?", userID, sessionIDs).
		Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("user_id = ? AND question_id IN ?", userID, questionIDs).
			Delete(&database.IdeaRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND id IN ?", userID, questionIDs).
			Delete(&database.QuestionRow{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("user_id = ? AND id IN ?", userID, sessionIDs).
		Delete(&database.SessionRow{}).Error
}

func deleteOwned(tx *gorm.DB, model interface{}, userID, id string) error {
	result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRow
	}
	return nil
}

func requireOwned(tx *gorm.DB, model interface{}, userID, id string) error {
	var count int64
	if err := tx.Model(model).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNoRow
	}
	return nil
}
