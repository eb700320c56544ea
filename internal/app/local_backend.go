// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"context"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/storage/local"
)

// LocalBackend keeps the graph in memory and writes all of it through to the
// local cache after every mutation
type LocalBackend struct {
	storage *local.Storage
	now     func() time.Time
	newID   canvas.IDFunc
}

// NewLocalBackend creates a local-only backend
func NewLocalBackend(storage *local.Storage) *LocalBackend {
	return &LocalBackend{storage: storage, now: time.Now, newID: canvas.NewID}
}

// WithClock overrides time and id generation, for tests
func (b *LocalBackend) WithClock(now func() time.Time, newID canvas.IDFunc) *LocalBackend {
	b.now = now
	b.newID = newID
	return b
}

// Mode implements Backend
func (b *LocalBackend) Mode() string { return ModeLocal }

// Load implements Backend
func (b *LocalBackend) Load(ctx context.Context) (*canvas.Graph, error) {
	return b.storage.Load(ctx)
}

// CreateConcept implements Backend
func (b *LocalBackend) CreateConcept(_ context.Context, name string) (*canvas.Concept, error) {
	return canvas.NewConcept(b.newID(), name, b.newID(), b.now()), nil
}

// CreateSession implements Backend
func (b *LocalBackend) CreateSession(_ context.Context, _, name string) (*canvas.Session, error) {
	return canvas.NewSession(b.newID(), name, b.now()), nil
}

// CreateQuestion implements Backend
func (b *LocalBackend) CreateQuestion(_ context.Context, _, text string) (*canvas.Question, error) {
	return canvas.NewQuestion(b.newID(), text, b.now()), nil
}

// CreateAnswer implements Backend
func (b *LocalBackend) CreateAnswer(_ context.Context, _, text string) (*canvas.Answer, error) {
	return canvas.NewAnswer(b.newID(), text, b.now()), nil
}

// RenameConcept implements Backend
func (b *LocalBackend) RenameConcept(context.Context, string, string) error { return nil }

// UpdateQuestion implements Backend
func (b *LocalBackend) UpdateQuestion(context.Context, string, string) error { return nil }

// UpdateAnswerText implements Backend
func (b *LocalBackend) UpdateAnswerText(context.Context, string, string) error { return nil }

// UpdateAnswerColor implements Backend
func (b *LocalBackend) UpdateAnswerColor(context.Context, string, canvas.Color) error { return nil }

// DeleteConcept implements Backend
func (b *LocalBackend) DeleteConcept(context.Context, string) error { return nil }

// DeleteSession implements Backend
func (b *LocalBackend) DeleteSession(context.Context, string) error { return nil }

// DeleteQuestion implements Backend
func (b *LocalBackend) DeleteQuestion(context.Context, string) error { return nil }

// DeleteAnswer implements Backend
func (b *LocalBackend) DeleteAnswer(context.Context, string) error { return nil }

// Persist writes the whole graph
func (b *LocalBackend) Persist(ctx context.Context, g *canvas.Graph) error {
	return b.storage.Save(ctx, g)
}

// Purge has nothing to do; the pruned graph is persisted afterwards
func (b *LocalBackend) Purge(context.Context, canvas.PruneResult) error { return nil }

// Theme implements Backend
func (b *LocalBackend) Theme(ctx context.Context) (bool, error) {
	return b.storage.Theme(ctx)
}

// SetTheme implements Backend
func (b *LocalBackend) SetTheme(ctx context.Context, dark bool) error {
	return b.storage.SetTheme(ctx, dark)
}
