// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func answer(id string, color Color) *Answer {
	a := NewAnswer(id, "idea "+id, testNow)
	a.Color = color
	return a
}

func testGraph() *Graph {
	c := NewConcept("c1", "C1", "s1", testNow)
	s := c.Sessions[0]

	q1 := NewQuestion("q1", "Q1", testNow)
	q1.Answers = []*Answer{answer("a1", ColorGrey), answer("a2", ColorGreen)}

	q2 := NewQuestion("q2", "Q2", testNow)
	q2.Answers = []*Answer{answer("a3", ColorGrey), answer("a4", ColorGrey)}

	q3 := NewQuestion("q3", "Q3 has no answers yet", testNow)

	s.Questions = []*Question{q1, q2, q3}
	return NewGraph([]*Concept{c})
}

func TestNewConcept_HasDefaultSession(t *testing.T) {
	c := NewConcept("c1", "C1", "s1", testNow)

	require.Len(t, c.Sessions, 1)
	assert.Equal(t, DefaultSessionName, c.Sessions[0].Name)
	assert.Equal(t, "s1", c.CurrentSessionID)
	assert.NotNil(t, c.Sessions[0].Questions)
}

func TestConcept_CurrentSession_RepairsDanglingID(t *testing.T) {
	c := NewConcept("c1", "C1", "s1", testNow)
	c.Sessions = append(c.Sessions, NewSession("s2", "Session 2", testNow))

	c.CurrentSessionID = "s2"
	assert.Equal(t, "s2", c.CurrentSession().ID)

	c.CurrentSessionID = "gone"
	s := c.CurrentSession()
	require.NotNil(t, s)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "s1", c.CurrentSessionID)

	c.CurrentSessionID = ""
	assert.Equal(t, "s1", c.CurrentSession().ID)
}

func TestGraph_Find(t *testing.T) {
	g := testGraph()

	ref, err := g.FindAnswer("a2")
	require.NoError(t, err)
	assert.Equal(t, "q1", ref.Question.ID)
	assert.Equal(t, "s1", ref.Session.ID)
	assert.Equal(t, "c1", ref.Concept.ID)

	_, err = g.FindAnswer("missing")
	assert.True(t, IsNotFound(err))

	_, err = g.FindQuestion("missing")
	assert.True(t, IsNotFound(err))

	_, _, err = g.FindSession("s1")
	assert.NoError(t, err)

	_, err = g.FindConcept("nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "concept", nf.Kind)
}

func TestGraph_GreyAnswerIDs(t *testing.T) {
	g := testGraph()
	assert.Equal(t, []string{"a1", "a3", "a4"}, g.GreyAnswerIDs())
}

func TestGraph_PruneGrey(t *testing.T) {
	g := testGraph()

	result := g.PruneGrey()

	assert.ElementsMatch(t, []string{"a1", "a3", "a4"}, result.AnswerIDs)
	assert.Equal(t, []string{"q2"}, result.QuestionIDs)
	assert.Empty(t, g.GreyAnswerIDs())

	s := g.Concepts[0].Sessions[0]
	require.Len(t, s.Questions, 2)
	assert.Equal(t, "q1", s.Questions[0].ID)
	assert.Equal(t, "q3", s.Questions[1].ID, "a question created without answers survives the prune")
	assert.Len(t, s.Questions[0].Answers, 1)

	// Nothing left to prune
	again := g.PruneGrey()
	assert.True(t, again.Empty())
	assert.Len(t, g.Concepts, 1)
	assert.Len(t, g.Concepts[0].Sessions, 1)
}

func TestGraph_PruneAnswers_OnlyListed(t *testing.T) {
	g := testGraph()

	result := g.PruneAnswers([]string{"a3"})

	assert.Equal(t, []string{"a3"}, result.AnswerIDs)
	assert.Empty(t, result.QuestionIDs)
	ref, err := g.FindQuestion("q2")
	require.NoError(t, err)
	assert.Len(t, ref.Question.Answers, 1)
}

func TestGraph_Remove(t *testing.T) {
	g := testGraph()
	c := g.Concepts[0]
	c.Sessions = append(c.Sessions, NewSession("s2", "Session 2", testNow))
	c.CurrentSessionID = "s2"

	assert.True(t, g.RemoveAnswer("a2"))
	assert.False(t, g.RemoveAnswer("a2"))

	assert.True(t, g.RemoveQuestion("q1"))
	_, err := g.FindAnswer("a1")
	assert.True(t, IsNotFound(err), "answers go with their question")

	assert.True(t, g.RemoveSession("s2"))
	assert.Equal(t, "s1", c.CurrentSessionID)

	assert.True(t, g.RemoveConcept("c1"))
	assert.Empty(t, g.Concepts)
	assert.False(t, g.RemoveConcept("c1"))
}

func TestGraph_Validate(t *testing.T) {
	g := testGraph()
	require.NoError(t, g.Validate())

	g.Concepts[0].Sessions = nil
	assert.Error(t, g.Validate())
}

func TestGraph_NormalizeColors(t *testing.T) {
	raw := `{"concepts":[{"id":"c1","name":"C1","currentSessionId":"missing","sessions":[
		{"id":"s1","name":"Session 1","questions":[
			{"id":"q1","text":"Q1","answers":[
				{"id":"a1","text":"no color"},
				{"id":"a2","text":"odd","color":"orange"},
				{"id":"a3","text":"kept","color":"purple"}
			]},
			{"id":"q2","text":"Q2"}
		]}
	]}]}`

	var g Graph
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	g.Normalize()

	answers := g.Concepts[0].Sessions[0].Questions[0].Answers
	assert.Equal(t, ColorGrey, answers[0].Color)
	assert.Equal(t, ColorGrey, answers[1].Color)
	assert.Equal(t, ColorPurple, answers[2].Color)
	assert.NotNil(t, g.Concepts[0].Sessions[0].Questions[1].Answers)
	assert.Equal(t, "s1", g.Concepts[0].CurrentSessionID)
	assert.NoError(t, g.Validate())
}

func TestGraph_PlanPrune_MatchesPrune(t *testing.T) {
	g := testGraph()
	ids := g.GreyAnswerIDs()

	plan := g.PlanPrune(ids)
	assert.Equal(t, 4, g.CountAnswers(), "planning leaves the graph untouched")

	result := g.PruneAnswers(ids)
	assert.Equal(t, plan, result)
}

func TestGraph_Clone_IsDeep(t *testing.T) {
	g := testGraph()
	clone := g.Clone()
	assert.Equal(t, g, clone)

	clone.Concepts[0].Name = "changed"
	clone.Concepts[0].Sessions[0].Questions[0].Answers[0].Color = ColorGreen
	assert.Equal(t, "C1", g.Concepts[0].Name)
	assert.Equal(t, ColorGrey, g.Concepts[0].Sessions[0].Questions[0].Answers[0].Color)
}
