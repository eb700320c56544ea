// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/database"
)

// nestedSelect pulls a concept with its whole subtree in one request
const nestedSelect = "*, sessions(*, questions(*, ideas(*)))"

// RestClient is the part of the supabase client the store needs
type RestClient interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseStore talks to the four collections through PostgREST. The
// PostgREST client has no context support, so ctx is only checked before
// each request.
type SupabaseStore struct {
	client RestClient
}

// NewSupabaseStore connects to a Supabase project with an API key
func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return NewSupabaseStoreWithClient(client), nil
}

// NewSupabaseStoreWithClient wraps an existing client
func NewSupabaseStoreWithClient(client RestClient) *SupabaseStore {
	return &SupabaseStore{client: client}
}

// LoadGraph fetches all concepts of the user, newest first
func (s *SupabaseStore) LoadGraph(ctx context.Context, userID string) (*canvas.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError(OpLoad, err)
	}
	var rows []supaConcept
	_, err := s.client.From("concepts").
		Select(nestedSelect, "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, storeError(OpLoad, err)
	}
	return graphFromRows(conceptRows(rows)), nil
}

// InsertConcept creates a concept row
func (s *SupabaseStore) InsertConcept(ctx context.Context, userID, name string) (Created, error) {
	return s.insert(ctx, OpAddConcept, "concepts", map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})
}

// InsertSession creates a session row
func (s *SupabaseStore) InsertSession(ctx context.Context, userID, conceptID, name string) (Created, error) {
	return s.insert(ctx, OpAddSession, "sessions", map[string]interface{}{
		"user_id":    userID,
		"concept_id": conceptID,
		"name":       name,
	})
}

// InsertQuestion creates a question row
func (s *SupabaseStore) InsertQuestion(ctx context.Context, userID, sessionID, text string) (Created, error) {
	return s.insert(ctx, OpAddQuestion, "questions", map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
		"text":       text,
	})
}

// InsertIdea creates an idea row
func (s *SupabaseStore) InsertIdea(ctx context.Context, userID, questionID, text string, color canvas.Color) (Created, error) {
	return s.insert(ctx, OpAddIdea, "ideas", map[string]interface{}{
		"user_id":     userID,
		"question_id": questionID,
		"text":        text,
		"color":       string(color.Normalize()),
	})
}

// UpdateConceptName renames a concept
func (s *SupabaseStore) UpdateConceptName(ctx context.Context, userID, id, name string) error {
	return s.update(ctx, OpRenameConcept, "concepts", userID, id, map[string]interface{}{"name": name})
}

// UpdateQuestionText edits a question
func (s *SupabaseStore) UpdateQuestionText(ctx context.Context, userID, id, text string) error {
	return s.update(ctx, OpEditQuestion, "questions", userID, id, map[string]interface{}{"text": text})
}

// UpdateIdeaText edits an idea
func (s *SupabaseStore) UpdateIdeaText(ctx context.Context, userID, id, text string) error {
	return s.update(ctx, OpEditIdea, "ideas", userID, id, map[string]interface{}{"text": text})
}

// UpdateIdeaColor recolors an idea
func (s *SupabaseStore) UpdateIdeaColor(ctx context.Context, userID, id string, color canvas.Color) error {
	return s.update(ctx, OpColorIdea, "ideas", userID, id, map[string]interface{}{"color": string(color.Normalize())})
}

// DeleteConcept removes the subtree child first, then the concept. There is
// no transaction across requests; a failure part way leaves the concept in
// place so the delete can be repeated.
func (s *SupabaseStore) DeleteConcept(ctx context.Context, userID, id string) error {
	sessionIDs, err := s.childIDs(ctx, "sessions", "concept_id", userID, []string{id})
	if err != nil {
		return storeError(OpDeleteConcept, err)
	}
	if err := s.deleteSessions(ctx, userID, sessionIDs); err != nil {
		return storeError(OpDeleteConcept, err)
	}
	return storeError(OpDeleteConcept, s.deleteOne(ctx, "concepts", userID, id))
}

// DeleteSession removes a session with its questions and ideas
func (s *SupabaseStore) DeleteSession(ctx context.Context, userID, id string) error {
	questionIDs, err := s.childIDs(ctx, "questions", "session_id", userID, []string{id})
	if err != nil {
		return storeError(OpDeleteSession, err)
	}
	if err := s.deleteQuestions(ctx, userID, questionIDs); err != nil {
		return storeError(OpDeleteSession, err)
	}
	return storeError(OpDeleteSession, s.deleteOne(ctx, "sessions", userID, id))
}

// DeleteQuestion removes the ideas of a question and then the question
func (s *SupabaseStore) DeleteQuestion(ctx context.Context, userID, id string) error {
	if err := s.deleteWhereIn(ctx, "ideas", "question_id", userID, []string{id}); err != nil {
		return storeError(OpDeleteQuestion, err)
	}
	return storeError(OpDeleteQuestion, s.deleteOne(ctx, "questions", userID, id))
}

// DeleteIdea removes one idea
func (s *SupabaseStore) DeleteIdea(ctx context.Context, userID, id string) error {
	return storeError(OpDeleteIdea, s.deleteOne(ctx, "ideas", userID, id))
}

// DeleteIdeas removes many ideas with one request
func (s *SupabaseStore) DeleteIdeas(ctx context.Context, userID string, ids []string) error {
	return storeError(OpPurgeIdeas, s.deleteWhereIn(ctx, "ideas", "id", userID, ids))
}

func (s *SupabaseStore) insert(ctx context.Context, op, table string, row map[string]interface{}) (Created, error) {
	if err := ctx.Err(); err != nil {
		return Created{}, storeError(op, err)
	}
	var inserted []supaRow
	if _, err := s.client.From(table).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&inserted); err != nil {
		return Created{}, storeError(op, err)
	}
	if len(inserted) == 0 {
		return Created{}, storeError(op, ErrNoRow)
	}
	return Created{ID: string(inserted[0].ID), CreatedAt: inserted[0].CreatedAt.Time}, nil
}

func (s *SupabaseStore) update(ctx context.Context, op, table, userID, id string, values map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return storeError(op, err)
	}
	var updated []supaRow
	if _, err := s.client.From(table).
		Update(values, "representation", "").
		Eq("id", id).
		Eq("user_id", userID).
		ExecuteTo(&updated); err != nil {
		return storeError(op, err)
	}
	if len(updated) == 0 {
		return storeError(op, ErrNoRow)
	}
	return nil
}

func (s *SupabaseStore) deleteSessions(ctx context.Context, userID string, sessionIDs []string) error {
	questionIDs, err := s.childIDs(ctx, "questions", "session_id", userID, sessionIDs)
	if err != nil {
		return err
	}
	if err := s.deleteQuestions(ctx, userID, questionIDs); err != nil {
		return err
	}
	return s.deleteWhereIn(ctx, "sessions", "id", userID, sessionIDs)
}

func (s *SupabaseStore) deleteQuestions(ctx context.Context, userID string, questionIDs []string) error {
	if err := s.deleteWhereIn(ctx, "ideas", "question_id", userID, questionIDs); err != nil {
		return err
	}
	return s.deleteWhereIn(ctx, "questions", "id", userID, questionIDs)
}

// childIDs lists ids of table rows whose parentColumn is one of parentIDs
func (s *SupabaseStore) childIDs(ctx context.Context, table, parentColumn, userID string, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []supaRow
	if _, err := s.client.From(table).
		Select("id", "", false).
		Eq("user_id", userID).
		In(parentColumn, parentIDs).
		ExecuteTo(&rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, string(r.ID))
	}
	return ids, nil
}

func (s *SupabaseStore) deleteWhereIn(ctx context.Context, table, column, userID string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(table).
		Delete("minimal", "").
		Eq("user_id", userID).
		In(column, values).
		Execute()
	return err
}

func (s *SupabaseStore) deleteOne(ctx context.Context, table, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var deleted []supaRow
	if _, err := s.client.From(table).
		Delete("representation", "").
		Eq("id", id).
		Eq("user_id", userID).
		ExecuteTo(&deleted); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return ErrNoRow
	}
	return nil
}

// flexID accepts both text and numeric primary keys
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("unsupported id %s", data)
	}
	*id = flexID(strconv.FormatInt(n, 10))
	return nil
}

// pgTime accepts timestamps with and without a zone offset
type pgTime struct {
	time.Time
}

var pgLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *pgTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		// null or missing
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range pgLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

type supaRow struct {
	ID        flexID `json:"id"`
	CreatedAt pgTime `json:"created_at"`
}

type supaIdea struct {
	supaRow
	Text  string `json:"text"`
	Color string `json:"color"`
}

type supaQuestion struct {
	supaRow
	Text  string     `json:"text"`
	Ideas []supaIdea `json:"ideas"`
}

type supaSession struct {
	supaRow
	Name      string         `json:"name"`
	Questions []supaQuestion `json:"questions"`
}

type supaConcept struct {
	supaRow
	Name     string        `json:"name"`
	Sessions []supaSession `json:"sessions"`
}

// conceptRows converts the PostgREST embedding into database rows
func conceptRows(in []supaConcept) []database.ConceptRow {
	out := make([]database.ConceptRow, 0, len(in))
	for _, c := range in {
		cr := database.ConceptRow{ID: string(c.ID), Name: c.Name, CreatedAt: c.CreatedAt.Time}
		for _, s := range c.Sessions {
			sr := database.SessionRow{ID: string(s.ID), ConceptID: cr.ID, Name: s.Name, CreatedAt: s.CreatedAt.Time}
			for _, q := range s.Questions {
				qr := database.QuestionRow{ID: string(q.ID), SessionID: sr.ID, Text: q.Text, CreatedAt: q.CreatedAt.Time}
				for _, i := range q.Ideas {
					qr.Ideas = append(qr.Ideas, database.IdeaRow{
						ID:         string(i.ID),
						QuestionID: qr.ID,
						Text:       i.Text,
						Color:      i.Color,
						CreatedAt:  i.CreatedAt.Time,
					})
				}
				sr.Questions = append(sr.Questions, qr)
			}
			cr.Sessions = append(cr.Sessions, sr)
		}
		out = append(out, cr)
	}
	return out
}
