// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrate upgrades persisted canvas blobs to the current shape.
//
// Every blob written by this module is a tagged record:
//
//	{"version": 1, "concepts": [...]}
//
// Version 0 is the untagged JSON array of concepts written by the original
// browser application. Each version has exactly one upgrade function that
// produces the next version.
package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

// CurrentVersion is the shape every load is upgraded to
const CurrentVersion = 1

// Document is the current-version record
type Document struct {
	Version  int               `json:"version"`
	Concepts []*canvas.Concept `json:"concepts"`
}

// upgrader turns a blob of version N into a blob of version N+1
type upgrader func(m *Migrator, raw []byte) ([]byte, error)

var upgraders = map[int]upgrader{
	0: upgradeV0,
}

// Migrator runs upgrades. Now and NewID are injectable for tests.
type Migrator struct {
	Now   func() time.Time
	NewID canvas.IDFunc
}

// New creates a migrator using the wall clock and canvas.NewID
func New() *Migrator {
	return &Migrator{Now: time.Now, NewID: canvas.NewID}
}

// DetectVersion inspects a blob and returns its version
func DetectVersion(raw []byte) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("empty document")
	}
	switch trimmed[0] {
	case '[':
		return 0, nil
	case '{':
		var tag struct {
			Version *int `json:"version"`
		}
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return 0, fmt.Errorf("failed to read version tag: %w", err)
		}
		if tag.Version == nil || *tag.Version < 1 {
			return 0, fmt.Errorf("document has no valid version tag")
		}
		return *tag.Version, nil
	default:
		return 0, fmt.Errorf("unrecognized document shape")
	}
}

// Migrate upgrades raw to the current version and returns its canonical
// encoding. Migrating already-current output returns identical bytes.
func (m *Migrator) Migrate(raw []byte) ([]byte, error) {
	doc, err := m.Decode(raw)
	if err != nil {
		return nil, err
	}
	return Encode(doc.Concepts)
}

// Decode upgrades raw and decodes it into a current-version document
func (m *Migrator) Decode(raw []byte) (*Document, error) {
	version, err := DetectVersion(raw)
	if err != nil {
		return nil, err
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", version, CurrentVersion)
	}

	for version < CurrentVersion {
		up, ok := upgraders[version]
		if !ok {
			return nil, fmt.Errorf("no upgrade path from version %d", version)
		}
		raw, err = up(m, raw)
		if err != nil {
			return nil, fmt.Errorf("upgrade from version %d failed: %w", version, err)
		}
		version++
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode version %d document: %w", CurrentVersion, err)
	}
	concepts := make([]*canvas.Concept, 0, len(doc.Concepts))
	for _, c := range doc.Concepts {
		if c != nil {
			concepts = append(concepts, c)
		}
	}
	doc.Concepts = canvas.NewGraph(concepts).Concepts
	return &doc, nil
}

// Encode writes concepts as a current-version document
func Encode(concepts []*canvas.Concept) ([]byte, error) {
	g := canvas.NewGraph(concepts)
	data, err := json.Marshal(Document{Version: CurrentVersion, Concepts: g.Concepts})
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// upgradeV0 renames title to name and wraps flat questions into a default session
func upgradeV0(m *Migrator, raw []byte) ([]byte, error) {
	var concepts []map[string]any
	if err := json.Unmarshal(raw, &concepts); err != nil {
		return nil, fmt.Errorf("failed to decode legacy concepts: %w", err)
	}

	upgraded := make([]map[string]any, 0, len(concepts))
	for _, concept := range concepts {
		if concept == nil {
			continue
		}
		upgraded = append(upgraded, concept)
		if title, ok := concept["title"]; ok {
			if name, _ := concept["name"].(string); name == "" {
				concept["name"] = title
				delete(concept, "title")
			}
		}

		if concept["sessions"] != nil {
			continue
		}

		questions, ok := concept["questions"].([]any)
		if !ok {
			questions = []any{}
		}
		createdAt, ok := concept["createdAt"].(string)
		if !ok || createdAt == "" {
			createdAt = m.Now().UTC().Format(time.RFC3339Nano)
		}
		sessionID := m.NewID()
		concept["sessions"] = []any{
			map[string]any{
				"id":        sessionID,
				"name":      canvas.DefaultSessionName,
				"questions": questions,
				"createdAt": createdAt,
			},
		}
		concept["currentSessionId"] = sessionID
		delete(concept, "questions")
	}

	return json.Marshal(map[string]any{
		"version":  1,
		"concepts": upgraded,
	})
}
