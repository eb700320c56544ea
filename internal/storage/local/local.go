// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package local persists the canvas graph as a single versioned blob in a
// kv.Store, next to the theme preference and the pending-purge list.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/kv"
	"github.com/tejzpr/ideacanvas-mcp/internal/migrate"
)

// Storage keys
const (
	KeyConcepts     = "brainstorming-concepts"
	KeyPendingPurge = "grey-ideas-to-delete"
	KeyTheme        = "brainstorming-theme"
)

// ThemeDark is the stored value for the dark theme; anything else is light
const ThemeDark = "dark"

// Storage is the local persistence adapter
type Storage struct {
	store    kv.Store
	migrator *migrate.Migrator
	now      func() time.Time
	newID    canvas.IDFunc
}

// Option configures a Storage
type Option func(*Storage)

// WithClock overrides the clock used for synthesized entities
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// WithIDFunc overrides the identifier generator
func WithIDFunc(fn canvas.IDFunc) Option {
	return func(s *Storage) { s.newID = fn }
}

// New creates a local adapter on top of store
func New(store kv.Store, opts ...Option) *Storage {
	s := &Storage{
		store: store,
		now:   time.Now,
		newID: canvas.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.migrator = migrate.New()
	s.migrator.Now = s.now
	s.migrator.NewID = s.newID
	return s
}

// Load reads, migrates and decodes the graph. When nothing is stored yet a
// default concept is synthesized and written back.
func (s *Storage) Load(ctx context.Context) (*canvas.Graph, error) {
	raw, err := s.store.Get(ctx, KeyConcepts)
	if errors.Is(err, kv.ErrNotFound) {
		return s.seed(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read concepts: %w", err)
	}

	doc, err := s.migrator.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate stored concepts: %w", err)
	}
	g := canvas.NewGraph(doc.Concepts)

	if s.repair(g) {
		if err := s.Save(ctx, g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Save overwrites the stored graph with one Put
func (s *Storage) Save(ctx context.Context, g *canvas.Graph) error {
	data, err := migrate.Encode(g.Concepts)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, KeyConcepts, data); err != nil {
		return fmt.Errorf("failed to save concepts: %w", err)
	}
	return nil
}

// RecordPendingPurge stores answer ids whose remote delete may not finish
func (s *Storage) RecordPendingPurge(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode pending purge: %w", err)
	}
	if err := s.store.Put(ctx, KeyPendingPurge, data); err != nil {
		return fmt.Errorf("failed to record pending purge: %w", err)
	}
	return nil
}

// PendingPurge returns the recorded ids, or none
func (s *Storage) PendingPurge(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, KeyPendingPurge)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending purge: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode pending purge: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ClearPendingPurge forgets the recorded ids
func (s *Storage) ClearPendingPurge(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyPendingPurge); err != nil {
		return fmt.Errorf("failed to clear pending purge: %w", err)
	}
	return nil
}

// Theme reports whether the dark theme is stored
func (s *Storage) Theme(ctx context.Context) (bool, error) {
	raw, err := s.store.Get(ctx, KeyTheme)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read theme: %w", err)
	}
	return string(raw) == ThemeDark, nil
}

// SetTheme stores the theme preference
func (s *Storage) SetTheme(ctx context.Context, dark bool) error {
	value := "light"
	if dark {
		value = ThemeDark
	}
	if err := s.store.Put(ctx, KeyTheme, []byte(value)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

func (s *Storage) seed(ctx context.Context) (*canvas.Graph, error) {
	now := s.now()
	c := canvas.NewConcept(s.newID(), canvas.DefaultConceptName, s.newID(), now)
	g := canvas.NewGraph([]*canvas.Concept{c})
	if err := s.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// repair gives every session-less concept a default session
func (s *Storage) repair(g *canvas.Graph) bool {
	changed := false
	for _, c := range g.Concepts {
		if len(c.Sessions) > 0 {
			continue
		}
		session := canvas.NewSession(s.newID(), canvas.DefaultSessionName, s.now())
		c.Sessions = []*canvas.Session{session}
		c.CurrentSessionID = session.ID
		changed = true
	}
	return changed
}
