// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package app owns the canvas state and runs every user action against the
// configured persistence backend: validate, call the backend, mutate the graph
// only on success, persist, notify.
package app

import (
	"context"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

// Modes
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Backend is the persistence adapter selected at startup. Create calls return
// the entity with its authoritative id and timestamp.
type Backend interface {
	Mode() string
	Load(ctx context.Context) (*canvas.Graph, error)

	CreateConcept(ctx context.Context, name string) (*canvas.Concept, error)
	CreateSession(ctx context.Context, conceptID, name string) (*canvas.Session, error)
	CreateQuestion(ctx context.Context, sessionID, text string) (*canvas.Question, error)
	CreateAnswer(ctx context.Context, questionID, text string) (*canvas.Answer, error)

	RenameConcept(ctx context.Context, id, name string) error
	UpdateQuestion(ctx context.Context, id, text string) error
	UpdateAnswerText(ctx context.Context, id, text string) error
	UpdateAnswerColor(ctx context.Context, id string, color canvas.Color) error

	DeleteConcept(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	DeleteQuestion(ctx context.Context, id string) error
	DeleteAnswer(ctx context.Context, id string) error

	// Persist is called with the full graph after every mutation
	Persist(ctx context.Context, g *canvas.Graph) error
	// Purge removes the planned answers and questions from durable storage.
	// A nil error means the answers are gone.
	Purge(ctx context.Context, plan canvas.PruneResult) error

	Theme(ctx context.Context) (bool, error)
	SetTheme(ctx context.Context, dark bool) error
}
