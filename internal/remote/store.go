// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package remote is the persistence adapter for the user scoped remote store.
// Rows live in four collections (concepts, sessions, questions, ideas) and
// every read, write and delete is filtered by the owning user id. Failures
// are always reported as *canvas.RemoteStoreError.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

// Operation names, used as the prefix of user facing error messages
const (
	OpLoad           = "loading concepts"
	OpAddConcept     = "adding concept"
	OpAddSession     = "adding session"
	OpAddQuestion    = "adding question"
	OpAddIdea        = "adding idea"
	OpRenameConcept  = "renaming concept"
	OpEditQuestion   = "updating question"
	OpEditIdea       = "updating idea"
	OpColorIdea      = "updating idea color"
	OpDeleteConcept  = "deleting concept"
	OpDeleteSession  = "deleting session"
	OpDeleteQuestion = "deleting question"
	OpDeleteIdea     = "deleting idea"
	OpPurgeIdeas     = "deleting grey ideas"
)

// Created is what the store assigns to a new row
type Created struct {
	ID        string
	CreatedAt time.Time
}

// Store is the remote persistence contract
type Store interface {
	LoadGraph(ctx context.Context, userID string) (*canvas.Graph, error)

	InsertConcept(ctx context.Context, userID, name string) (Created, error)
	InsertSession(ctx context.Context, userID, conceptID, name string) (Created, error)
	InsertQuestion(ctx context.Context, userID, sessionID, text string) (Created, error)
	InsertIdea(ctx context.Context, userID, questionID, text string, color canvas.Color) (Created, error)

	UpdateConceptName(ctx context.Context, userID, id, name string) error
	UpdateQuestionText(ctx context.Context, userID, id, text string) error
	UpdateIdeaText(ctx context.Context, userID, id, text string) error
	UpdateIdeaColor(ctx context.Context, userID, id string, color canvas.Color) error

	// Deletes cascade explicitly: a question takes its ideas, a session its
	// questions and their ideas, a concept its sessions and everything below.
	DeleteConcept(ctx context.Context, userID, id string) error
	DeleteSession(ctx context.Context, userID, id string) error
	DeleteQuestion(ctx context.Context, userID, id string) error
	DeleteIdea(ctx context.Context, userID, id string) error
	DeleteIdeas(ctx context.Context, userID string, ids []string) error
}

// ErrNoRow marks a write that matched no row owned by the user. The store
// answered; the request was refused.
var ErrNoRow = errors.New("no matching row for this user")

// storeError wraps err as a RemoteStoreError for op
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var remote *canvas.RemoteStoreError
	if errors.As(err, &remote) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return canvas.NewRemoteStoreError(op, "request timed out or was cancelled", err)
	}
	return canvas.NewRemoteStoreError(op, err.Error(), err)
}

// IsRejected reports whether err is a refusal by the store rather than a
// transport or database failure
func IsRejected(err error) bool {
	return errors.Is(err, ErrNoRow)
}
