// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"context"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/remote"
	"github.com/tejzpr/ideacanvas-mcp/internal/storage/local"
	"go.uber.org/zap"
)

// RemoteBackend treats the remote store as authoritative. The local cache
// only holds the theme and the pending-purge list.
type RemoteBackend struct {
	store  remote.Store
	userID string
	cache  *local.Storage
	logger *zap.Logger
}

// NewRemoteBackend creates a remote-backed backend for one user
func NewRemoteBackend(store remote.Store, userID string, cache *local.Storage, logger *zap.Logger) *RemoteBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteBackend{
		store:  store,
		userID: userID,
		cache:  cache,
		logger: logger.With(zap.String("user_id", userID)),
	}
}

// Mode implements Backend
func (b *RemoteBackend) Mode() string { return ModeRemote }

// Load reads the user's graph and finishes any pending purge against it
func (b *RemoteBackend) Load(ctx context.Context) (*canvas.Graph, error) {
	g, err := b.store.LoadGraph(ctx, b.userID)
	if err != nil {
		return nil, err
	}
	b.flushPendingPurge(ctx, g)

	for _, c := range g.Concepts {
		if len(c.Sessions) > 0 {
			continue
		}
		created, err := b.store.InsertSession(ctx, b.userID, c.ID, canvas.DefaultSessionName)
		if err != nil {
			b.logger.Warn("failed to add default session to concept", zap.String("concept_id", c.ID), zap.Error(err))
			continue
		}
		s := canvas.NewSession(created.ID, canvas.DefaultSessionName, created.CreatedAt)
		c.Sessions = append(c.Sessions, s)
		c.CurrentSessionID = s.ID
	}
	return g, nil
}

// flushPendingPurge deletes answers recorded by an earlier purge that may not
// have reached the store, along with the questions that delete empties, and
// prunes both from g. Only answers still grey in g are deleted. The list
// survives a failed delete and g is then left as loaded.
func (b *RemoteBackend) flushPendingPurge(ctx context.Context, g *canvas.Graph) {
	pending, err := b.cache.PendingPurge(ctx)
	if err != nil {
		b.logger.Warn("failed to read pending purge", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	ids := stillGrey(g, pending)
	if len(ids) > 0 {
		plan := g.PlanPrune(ids)
		if err := b.store.DeleteIdeas(ctx, b.userID, ids); err != nil {
			b.logger.Warn("pending purge failed, will retry on next load", zap.Int("count", len(ids)), zap.Error(err))
			return
		}
		b.deleteEmptied(ctx, plan.QuestionIDs)
		g.PruneAnswers(ids)
	}
	b.logger.Info("pending purge completed",
		zap.Int("recorded", len(pending)),
		zap.Int("deleted", len(ids)))
	if err := b.cache.ClearPendingPurge(ctx); err != nil {
		b.logger.Warn("failed to clear pending purge", zap.Error(err))
	}
}

// stillGrey keeps the ids that name a grey answer in g. Answers recolored
// since the purge was recorded, or already gone, are dropped.
func stillGrey(g *canvas.Graph, ids []string) []string {
	grey := make([]string, 0, len(ids))
	for _, id := range ids {
		ref, err := g.FindAnswer(id)
		if err != nil {
			continue
		}
		if ref.Answer.Color.Normalize() == canvas.ColorGrey {
			grey = append(grey, id)
		}
	}
	return grey
}

// deleteEmptied removes questions a purge left without answers, best effort
func (b *RemoteBackend) deleteEmptied(ctx context.Context, questionIDs []string) {
	for _, id := range questionIDs {
		if err := b.store.DeleteQuestion(ctx, b.userID, id); err != nil {
			b.logger.Warn("failed to delete question emptied by purge", zap.String("question_id", id), zap.Error(err))
		}
	}
}

// CreateConcept inserts the concept and its default session. If the session
// insert fails the concept row is deleted again.
func (b *RemoteBackend) CreateConcept(ctx context.Context, name string) (*canvas.Concept, error) {
	created, err := b.store.InsertConcept(ctx, b.userID, name)
	if err != nil {
		return nil, err
	}
	session, err := b.store.InsertSession(ctx, b.userID, created.ID, canvas.DefaultSessionName)
	if err != nil {
		if rbErr := b.store.DeleteConcept(ctx, b.userID, created.ID); rbErr != nil {
			b.logger.Error("failed to roll back concept without session",
				zap.String("concept_id", created.ID), zap.Error(rbErr))
		}
		return nil, err
	}
	c := canvas.NewConcept(created.ID, name, session.ID, created.CreatedAt)
	c.Sessions[0].CreatedAt = session.CreatedAt
	return c, nil
}

// CreateSession implements Backend
func (b *RemoteBackend) CreateSession(ctx context.Context, conceptID, name string) (*canvas.Session, error) {
	created, err := b.store.InsertSession(ctx, b.userID, conceptID, name)
	if err != nil {
		return nil, err
	}
	return canvas.NewSession(created.ID, name, created.CreatedAt), nil
}

// CreateQuestion implements Backend
func (b *RemoteBackend) CreateQuestion(ctx context.Context, sessionID, text string) (*canvas.Question, error) {
	created, err := b.store.InsertQuestion(ctx, b.userID, sessionID, text)
	if err != nil {
		return nil, err
	}
	return canvas.NewQuestion(created.ID, text, created.CreatedAt), nil
}

// CreateAnswer implements Backend
func (b *RemoteBackend) CreateAnswer(ctx context.Context, questionID, text string) (*canvas.Answer, error) {
	created, err := b.store.InsertIdea(ctx, b.userID, questionID, text, canvas.ColorGrey)
	if err != nil {
		return nil, err
	}
	return canvas.NewAnswer(created.ID, text, created.CreatedAt), nil
}

// RenameConcept implements Backend
func (b *RemoteBackend) RenameConcept(ctx context.Context, id, name string) error {
	return b.store.UpdateConceptName(ctx, b.userID, id, name)
}

// UpdateQuestion implements Backend
func (b *RemoteBackend) UpdateQuestion(ctx context.Context, id, text string) error {
	return b.store.UpdateQuestionText(ctx, b.userID, id, text)
}

// UpdateAnswerText implements Backend
func (b *RemoteBackend) UpdateAnswerText(ctx context.Context, id, text string) error {
	return b.store.UpdateIdeaText(ctx, b.userID, id, text)
}

// UpdateAnswerColor implements Backend
func (b *RemoteBackend) UpdateAnswerColor(ctx context.Context, id string, color canvas.Color) error {
	return b.store.UpdateIdeaColor(ctx, b.userID, id, color)
}

// DeleteConcept implements Backend
func (b *RemoteBackend) DeleteConcept(ctx context.Context, id string) error {
	return b.store.DeleteConcept(ctx, b.userID, id)
}

// DeleteSession implements Backend
func (b *RemoteBackend) DeleteSession(ctx context.Context, id string) error {
	return b.store.DeleteSession(ctx, b.userID, id)
}

// DeleteQuestion implements Backend
func (b *RemoteBackend) DeleteQuestion(ctx context.Context, id string) error {
	return b.store.DeleteQuestion(ctx, b.userID, id)
}

// DeleteAnswer implements Backend
func (b *RemoteBackend) DeleteAnswer(ctx context.Context, id string) error {
	return b.store.DeleteIdea(ctx, b.userID, id)
}

// Persist is a no-op; every mutation already reached the store
func (b *RemoteBackend) Persist(context.Context, *canvas.Graph) error { return nil }

// Purge records the answer ids locally, deletes them, and clears the record
// once the delete succeeded. Questions emptied by the purge are deleted after
// that on a best effort basis.
func (b *RemoteBackend) Purge(ctx context.Context, plan canvas.PruneResult) error {
	if len(plan.AnswerIDs) == 0 {
		return nil
	}
	if err := b.cache.RecordPendingPurge(ctx, plan.AnswerIDs); err != nil {
		b.logger.Warn("failed to record pending purge", zap.Error(err))
	}
	if err := b.store.DeleteIdeas(ctx, b.userID, plan.AnswerIDs); err != nil {
		return err
	}
	if err := b.cache.ClearPendingPurge(ctx); err != nil {
		b.logger.Warn("failed to clear pending purge", zap.Error(err))
	}
	b.deleteEmptied(ctx, plan.QuestionIDs)
	return nil
}

// Theme implements Backend
func (b *RemoteBackend) Theme(ctx context.Context) (bool, error) {
	return b.cache.Theme(ctx)
}

// SetTheme implements Backend
func (b *RemoteBackend) SetTheme(ctx context.Context, dark bool) error {
	return b.cache.SetTheme(ctx, dark)
}
