// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

func TestController_Start_SeedsDefaultConcept(t *testing.T) {
	c, notes, _ := newLocalController(t)

	s := c.Snapshot()
	require.Len(t, s.Graph.Concepts, 1)
	assert.Equal(t, canvas.DefaultConceptName, s.Graph.Concepts[0].Name)
	assert.Equal(t, s.Graph.Concepts[0].ID, s.CurrentConceptID)
	assert.Equal(t, canvas.FilterAll, s.Filter)
	assert.Equal(t, ModeLocal, s.Mode)
	assert.False(t, s.Dark)
	assert.Empty(t, notes.Recent())
}

func TestController_PurgeScenario(t *testing.T) {
	ctx := context.Background()
	c, _, cache := newLocalController(t)

	concept, err := c.AddConcept(ctx, "C1")
	require.NoError(t, err)
	q, err := c.AddQuestion(ctx, "Q1")
	require.NoError(t, err)
	a, err := c.AddAnswer(ctx, "", "A1")
	require.NoError(t, err)
	assert.Equal(t, canvas.ColorGrey, a.Color)

	_, err = c.RecolorAnswer(ctx, a.ID, "green")
	require.NoError(t, err)

	result, err := c.Purge(ctx, TriggerHidden)
	require.NoError(t, err)
	assert.True(t, result.Empty())
	_, err = c.Snapshot().Graph.FindAnswer(a.ID)
	require.NoError(t, err, "a green answer survives the purge")

	_, err = c.RecolorAnswer(ctx, a.ID, "grey")
	require.NoError(t, err)

	result, err = c.Purge(ctx, TriggerUnload)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, result.AnswerIDs)
	assert.Equal(t, []string{q.ID}, result.QuestionIDs)

	s := c.Snapshot()
	_, err = s.Graph.FindQuestion(q.ID)
	assert.True(t, canvas.IsNotFound(err), "a question emptied by the purge is removed")
	kept, err := s.Graph.FindConcept(concept.ID)
	require.NoError(t, err)
	require.Len(t, kept.Sessions, 1)
	assert.Equal(t, canvas.DefaultSessionName, kept.Sessions[0].Name)
	assert.Empty(t, s.SelectedAnswerID)
	assert.Empty(t, s.SelectedQuestionID)

	stored, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Graph, stored)
}

func TestController_Purge_KeepsQuestionsThatWereAlreadyEmpty(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newLocalController(t)

	empty, err := c.AddQuestion(ctx, "Nothing here yet")
	require.NoError(t, err)
	_, err = c.AddQuestion(ctx, "Q2")
	require.NoError(t, err)
	_, err = c.AddAnswer(ctx, "", "grey one")
	require.NoError(t, err)

	result, err := c.Purge(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Len(t, result.AnswerIDs, 1)
	assert.Len(t, result.QuestionIDs, 1)

	_, err = c.Snapshot().Graph.FindQuestion(empty.ID)
	assert.NoError(t, err)
}

func TestController_Validation(t *testing.T) {
	ctx := context.Background()
	c, notes, _ := newLocalController(t)

	_, err := c.AddConcept(ctx, "   ")
	assert.True(t, canvas.IsValidation(err))

	_, err = c.AddQuestion(ctx, strings.Repeat("x", 2001))
	assert.True(t, canvas.IsValidation(err))

	_, err = c.AddAnswer(ctx, "", "no question selected")
	assert.True(t, canvas.IsValidation(err))

	_, err = c.RecolorAnswer(ctx, "whatever", "teal")
	assert.True(t, canvas.IsValidation(err))

	_, err = c.RecolorByKey(ctx, 3)
	assert.True(t, canvas.IsValidation(err), "no answer selected")

	assert.Empty(t, notes.Recent(), "input errors are returned, not notified")
	assert.Len(t, c.Snapshot().Graph.Concepts, 1)
}

func TestController_ConceptLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newLocalController(t)
	first := c.Snapshot().CurrentConceptID

	added, err := c.AddConcept(ctx, "  Second  ")
	require.NoError(t, err)
	assert.Equal(t, "Second", added.Name)
	assert.Equal(t, added.ID, c.Snapshot().CurrentConceptID)

	require.NoError(t, c.RenameConcept(ctx, added.ID, "Renamed"))
	concept, _ := c.Current()
	assert.Equal(t, "Renamed", concept.Name)

	_, err = c.SwitchConcept(ctx, first)
	require.NoError(t, err)
	_, err = c.SwitchConcept(ctx, "missing")
	assert.True(t, canvas.IsNotFound(err))

	require.NoError(t, c.DeleteConcept(ctx, first))
	s := c.Snapshot()
	require.Len(t, s.Graph.Concepts, 1)
	assert.Equal(t, added.ID, s.CurrentConceptID, "the first remaining concept becomes current")
}

func TestController_AddQuestion_CreatesConceptWhenNoneExist(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newLocalController(t)
	require.NoError(t, c.DeleteConcept(ctx, c.Snapshot().CurrentConceptID))
	require.Empty(t, c.Snapshot().Graph.Concepts)

	q, err := c.AddQuestion(ctx, "Where do we start?")
	require.NoError(t, err)

	s := c.Snapshot()
	require.Len(t, s.Graph.Concepts, 1)
	assert.Equal(t, canvas.DefaultConceptName, s.Graph.Concepts[0].Name)
	assert.Equal(t, q.ID, s.SelectedQuestionID)
}

func TestController_Sessions(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newLocalController(t)
	_, first := c.Current()

	err := c.DeleteSession(ctx, first.ID)
	assert.True(t, canvas.IsValidation(err), "the last session cannot be deleted")

	second, err := c.AddSession(ctx, "Session 2")
	require.NoError(t, err)
	_, current := c.Current()
	assert.Equal(t, second.ID, current.ID)

	_, err = c.AddQuestion(ctx, "In session two")
	require.NoError(t, err)

	_, err = c.SwitchSession(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Visible())

	require.NoError(t, c.DeleteSession(ctx, second.ID))
	concept, _ := c.Current()
	assert.Len(t, concept.Sessions, 1)
	assert.Equal(t, 0, c.Snapshot().Graph.CountAnswers())
}

func TestController_AnswersAndFilter(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newLocalController(t)

	q, err := c.AddQuestion(ctx, "Q")
	require.NoError(t, err)
	a1, err := c.AddAnswer(ctx, q.ID, "one")
	require.NoError(t, err)
	a2, err := c.AddAnswer(ctx, q.ID, "two")
	require.NoError(t, err)

	recolored, err := c.RecolorByKey(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, a2.ID, recolored.ID)
	assert.Equal(t, canvas.ColorGreen, recolored.Color)

	require.NoError(t, c.EditAnswer(ctx, a1.ID, "one, edited"))
	require.NoError(t, c.EditQuestion(ctx, q.ID, "Q edited"))

	filter, err := c.SetFilter("Green")
	require.NoError(t, err)
	assert.Equal(t, "green", filter)
	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Q edited", visible[0].Text)
	require.Len(t, visible[0].Answers, 1)
	assert.Equal(t, a2.ID, visible[0].Answers[0].ID)

	_, err = c.SetFilter("red")
	assert.True(t, canvas.IsValidation(err))

	groups := c.Ranked()
	require.Len(t, groups, 1)
	assert.Equal(t, canvas.ColorGreen, groups[0].Color)

	require.NoError(t, c.DeleteAnswer(ctx, a2.ID))
	assert.Empty(t, c.Snapshot().SelectedAnswerID)
	ref, err := c.Snapshot().Graph.FindQuestion(q.ID)
	require.NoError(t, err)
	assert.Len(t, ref.Question.Answers, 1)

	require.NoError(t, c.DeleteQuestion(ctx, q.ID))
	assert.Empty(t, c.Snapshot().SelectedQuestionID)
}

func TestController_SnapshotIsACopy(t *testing.T) {
	c, _, _ := newLocalController(t)

	s := c.Snapshot()
	s.Graph.Concepts[0].Name = "mutated"

	assert.Equal(t, canvas.DefaultConceptName, c.Snapshot().Graph.Concepts[0].Name)
}

func TestController_ToggleTheme(t *testing.T) {
	ctx := context.Background()
	c, _, cache := newLocalController(t)

	dark, err := c.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.True(t, dark)

	stored, err := cache.Theme(ctx)
	require.NoError(t, err)
	assert.True(t, stored)

	dark, err = c.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestNotificationLog(t *testing.T) {
	log := NewNotificationLog(2)
	for _, msg := range []string{"one", "two", "three"} {
		log.Notify(Notification{Level: LevelInfo, Message: msg})
	}

	recent := log.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Message)
	assert.Equal(t, "three", recent[1].Message)

	assert.Len(t, log.Drain(), 2)
	assert.Empty(t, log.Drain())
}
