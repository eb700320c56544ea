// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/postgrest-go"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

type recordedRequest struct {
	Method string
	Table  string
	Query  url.Values
	Body   string
}

// fakePostgREST answers every request on a table with a canned body
type fakePostgREST struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]string
	status    int
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	table := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Table:  table,
		Query:  r.URL.Query(),
		Body:   string(body),
	})
	resp, ok := f.responses[r.Method+" "+table]
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"code":"42501","message":"new row violates row-level security policy"}`))
		return
	}
	if !ok {
		resp = "[]"
	}
	_, _ = w.Write([]byte(resp))
}

func setupSupabase(t *testing.T, responses map[string]string) (*SupabaseStore, *fakePostgREST) {
	t.Helper()
	fake := &fakePostgREST{responses: responses}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client := postgrest.NewClient(srv.URL, "public", nil)
	return NewSupabaseStoreWithClient(client), fake
}

const nestedConcepts = `[
	{"id": 7, "user_id": "u1", "name": "Canvas", "created_at": "2025-02-01T10:00:00.123456+00:00",
	 "sessions": [
		{"id": 12, "concept_id": 7, "name": "Session 2", "created_at": "2025-02-02T10:00:00"},
		{"id": 11, "concept_id": 7, "name": "Session 1", "created_at": "2025-02-01T10:00:00",
		 "questions": [
			{"id": "q-1", "text": "What if?", "created_at": "2025-02-01T11:00:00Z",
			 "ideas": [
				{"id": "i-2", "text": "second", "color": "green", "created_at": "2025-02-01T12:30:00Z"},
				{"id": "i-1", "text": "first", "color": null, "created_at": "2025-02-01T12:00:00Z"}
			 ]}
		 ]}
	 ]}
]`

func TestSupabaseStore_LoadGraph(t *testing.T) {
	s, fake := setupSupabase(t, map[string]string{"GET concepts": nestedConcepts})

	g, err := s.LoadGraph(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "concepts", req.Table)
	assert.Equal(t, []string{"eq.u1"}, req.Query["user_id"])
	assert.Contains(t, req.Query.Get("select"), "sessions(")
	assert.True(t, strings.HasPrefix(req.Query.Get("order"), "created_at.desc"))

	require.Len(t, g.Concepts, 1)
	c := g.Concepts[0]
	assert.Equal(t, "7", c.ID)
	require.Len(t, c.Sessions, 2)
	assert.Equal(t, "11", c.Sessions[0].ID, "sessions are sorted oldest first")
	assert.Equal(t, "11", c.CurrentSessionID)

	answers := c.Sessions[0].Questions[0].Answers
	require.Len(t, answers, 2)
	assert.Equal(t, "i-1", answers[0].ID)
	assert.Equal(t, canvas.ColorGrey, answers[0].Color)
	assert.Equal(t, canvas.ColorGreen, answers[1].Color)
	assert.Empty(t, c.Sessions[1].Questions)
}

func TestSupabaseStore_InsertUsesStoreID(t *testing.T) {
	s, fake := setupSupabase(t, map[string]string{
		"POST concepts": `[{"id":"srv-1","user_id":"u1","name":"Canvas","created_at":"2025-02-01T10:00:00Z"}]`,
	})

	created, err := s.InsertConcept(context.Background(), "u1", "Canvas")
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), created.CreatedAt.UTC())

	require.Len(t, fake.requests, 1)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(fake.requests[0].Body), &body))
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "Canvas", body["name"])
}

func TestSupabaseStore_EmptyRepresentationIsRejection(t *testing.T) {
	s, _ := setupSupabase(t, nil)

	_, err := s.InsertConcept(context.Background(), "u1", "Canvas")
	assert.True(t, IsRejected(err))

	err = s.UpdateIdeaColor(context.Background(), "u1", "i-1", canvas.ColorBlue)
	assert.True(t, IsRejected(err))
}

func TestSupabaseStore_ErrorResponse(t *testing.T) {
	s, fake := setupSupabase(t, nil)
	fake.status = http.StatusForbidden

	_, err := s.InsertIdea(context.Background(), "u1", "q1", "idea", canvas.ColorGrey)
	require.Error(t, err)
	assert.True(t, canvas.IsRemote(err))
	assert.Contains(t, canvas.UserMessage(err), "row-level security")
}

func TestSupabaseStore_DeleteConceptCascadesChildFirst(t *testing.T) {
	s, fake := setupSupabase(t, map[string]string{
		"GET sessions":     `[{"id":"s1"},{"id":"s2"}]`,
		"GET questions":    `[{"id":"q1"}]`,
		"DELETE concepts":  `[{"id":"c1"}]`,
		"DELETE ideas":     ``,
		"DELETE questions": ``,
		"DELETE sessions":  ``,
	})

	require.NoError(t, s.DeleteConcept(context.Background(), "u1", "c1"))

	var order []string
	for _, r := range fake.requests {
		order = append(order, r.Method+" "+r.Table)
		assert.Equal(t, []string{"eq.u1"}, r.Query["user_id"], "%s %s is user scoped", r.Method, r.Table)
	}
	assert.Equal(t, []string{
		"GET sessions",
		"GET questions",
		"DELETE ideas",
		"DELETE questions",
		"DELETE sessions",
		"DELETE concepts",
	}, order)
	assert.Equal(t, "in.(q1)", fake.requests[2].Query.Get("question_id"))
}

func TestSupabaseStore_DeleteIdeas(t *testing.T) {
	s, fake := setupSupabase(t, map[string]string{"DELETE ideas": ``})

	require.NoError(t, s.DeleteIdeas(context.Background(), "u1", nil))
	assert.Empty(t, fake.requests)

	require.NoError(t, s.DeleteIdeas(context.Background(), "u1", []string{"a", "b"}))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "in.(a,b)", fake.requests[0].Query.Get("id"))
}

func TestSupabaseStore_CancelledContext(t *testing.T) {
	s, fake := setupSupabase(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.LoadGraph(ctx, "u1")
	require.Error(t, err)
	assert.True(t, canvas.IsRemote(err))
	assert.Empty(t, fake.requests)
}

func TestFlexID(t *testing.T) {
	var row supaRow
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &row))
	assert.Equal(t, flexID("42"), row.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "abc"}`), &row))
	assert.Equal(t, flexID("abc"), row.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id": 1.5}`), &row))
}
