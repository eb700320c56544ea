// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"context"
	"sync"
	"time"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"go.uber.org/zap"
)

// State is everything the user is looking at
type State struct {
	Graph              *canvas.Graph `json:"graph" yaml:"graph"`
	CurrentConceptID   string        `json:"current_concept_id" yaml:"current_concept_id"`
	SelectedQuestionID string        `json:"selected_question_id,omitempty" yaml:"selected_question_id,omitempty"`
	SelectedAnswerID   string        `json:"selected_answer_id,omitempty" yaml:"selected_answer_id,omitempty"`
	Filter             string        `json:"filter" yaml:"filter"`
	Dark               bool          `json:"dark" yaml:"dark"`
	Mode               string        `json:"mode" yaml:"mode"`
}

// Controller serializes user actions over one State. Returned entities are
// copies; the graph itself never leaves the controller.
type Controller struct {
	mu       sync.Mutex
	backend  Backend
	notifier Notifier
	logger   *zap.Logger
	state    State
}

// NewController creates a controller; call Start before anything else
func NewController(backend Backend, notifier Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:  backend,
		notifier: notifier,
		logger:   logger.With(zap.String("mode", backend.Mode())),
		state: State{
			Graph:  canvas.NewGraph(nil),
			Filter: canvas.FilterAll,
			Mode:   backend.Mode(),
		},
	}
}

// Start loads the graph and the theme and selects the first concept
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, err := c.backend.Load(ctx)
	if err != nil {
		return c.fail("start", err)
	}
	c.state.Graph = g
	c.state.CurrentConceptID = ""
	c.state.SelectedQuestionID = ""
	c.state.SelectedAnswerID = ""
	if len(g.Concepts) > 0 {
		c.state.CurrentConceptID = g.Concepts[0].ID
	}

	dark, err := c.backend.Theme(ctx)
	if err != nil {
		c.logger.Warn("failed to load theme", zap.Error(err))
	}
	c.state.Dark = dark

	c.logger.Info("canvas loaded",
		zap.Int("concepts", len(g.Concepts)),
		zap.Int("answers", g.CountAnswers()))
	return nil
}

// fail logs err, tells the user unless it is a plain input error, and returns it
func (c *Controller) fail(op string, err error) error {
	if canvas.IsValidation(err) {
		c.logger.Debug("rejected input", zap.String("op", op), zap.Error(err))
		return err
	}
	c.logger.Warn("canvas operation failed", zap.String("op", op), zap.Error(err))
	c.notifier.Notify(Notification{
		Level:   LevelError,
		Message: canvas.UserMessage(err),
		Time:    time.Now(),
	})
	return err
}

// persist writes the graph after a mutation. The mutation stands even if the
// write fails; the user is told.
func (c *Controller) persist(ctx context.Context, op string) {
	if err := c.backend.Persist(ctx, c.state.Graph); err != nil {
		_ = c.fail(op, err)
	}
}

// currentConcept resolves the current concept, falling back to the first one
func (c *Controller) currentConcept() *canvas.Concept {
	if concept, err := c.state.Graph.FindConcept(c.state.CurrentConceptID); err == nil {
		return concept
	}
	if len(c.state.Graph.Concepts) == 0 {
		c.state.CurrentConceptID = ""
		return nil
	}
	c.state.CurrentConceptID = c.state.Graph.Concepts[0].ID
	return c.state.Graph.Concepts[0]
}

func (c *Controller) requireConcept() (*canvas.Concept, error) {
	concept := c.currentConcept()
	if concept == nil {
		return nil, canvas.NewValidationError("concept", "no concept selected")
	}
	return concept, nil
}

// dropSelections forgets selected ids that no longer resolve
func (c *Controller) dropSelections() {
	if _, err := c.state.Graph.FindQuestion(c.state.SelectedQuestionID); err != nil {
		c.state.SelectedQuestionID = ""
	}
	if _, err := c.state.Graph.FindAnswer(c.state.SelectedAnswerID); err != nil {
		c.state.SelectedAnswerID = ""
	}
}

// Snapshot returns a deep copy of the state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentConcept()
	s := c.state
	s.Graph = c.state.Graph.Clone()
	return s
}

// Current returns copies of the current concept and session, nil when there is none
func (c *Controller) Current() (*canvas.Concept, *canvas.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	concept := c.currentConcept()
	if concept == nil {
		return nil, nil
	}
	return concept.Clone(), concept.CurrentSession().Clone()
}

// AddConcept creates a concept with a default session and switches to it
func (c *Controller) AddConcept(ctx context.Context, name string) (*canvas.Concept, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := cleanName(name)
	if err != nil {
		return nil, c.fail("add concept", err)
	}
	concept, err := c.addConcept(ctx, name)
	if err != nil {
		return nil, err
	}
	return concept.Clone(), nil
}

func (c *Controller) addConcept(ctx context.Context, name string) (*canvas.Concept, error) {
	concept, err := c.backend.CreateConcept(ctx, name)
	if err != nil {
		return nil, c.fail("add concept", err)
	}
	c.state.Graph.Concepts = append(c.state.Graph.Concepts, concept)
	c.switchTo(concept)
	c.persist(ctx, "add concept")
	c.logger.Info("concept added", zap.String("concept_id", concept.ID))
	return concept, nil
}

func (c *Controller) switchTo(concept *canvas.Concept) {
	c.state.CurrentConceptID = concept.ID
	c.state.SelectedQuestionID = ""
	c.state.SelectedAnswerID = ""
}

// SwitchConcept makes id the current concept
func (c *Controller) SwitchConcept(ctx context.Context, id string) (*canvas.Concept, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	concept, err := c.state.Graph.FindConcept(id)
	if err != nil {
		return nil, c.fail("switch concept", err)
	}
	c.switchTo(concept)
	return concept.Clone(), nil
}

// RenameConcept changes the name of a concept
func (c *Controller) RenameConcept(ctx context.Context, id, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := cleanName(name)
	if err != nil {
		return c.fail("rename concept", err)
	}
	concept, err := c.state.Graph.FindConcept(id)
	if err != nil {
		return c.fail("rename concept", err)
	}
	if concept.Name == name {
		return nil
	}
	if err := c.backend.RenameConcept(ctx, id, name); err != nil {
		return c.fail("rename concept", err)
	}
	concept.Name = name
	c.persist(ctx, "rename concept")
	return nil
}

// DeleteConcept removes a concept and everything in it. When it was current
// the first remaining concept becomes current.
func (c *Controller) DeleteConcept(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.state.Graph.FindConcept(id); err != nil {
		return c.fail("delete concept", err)
	}
	if err := c.backend.DeleteConcept(ctx, id); err != nil {
		return c.fail("delete concept", err)
	}
	c.state.Graph.RemoveConcept(id)
	if c.state.CurrentConceptID == id {
		c.state.CurrentConceptID = ""
		if len(c.state.Graph.Concepts) > 0 {
			c.switchTo(c.state.Graph.Concepts[0])
		}
	}
	c.dropSelections()
	c.persist(ctx, "delete concept")
	c.logger.Info("concept deleted", zap.String("concept_id", id))
	return nil
}

// AddSession adds a session to the current concept and makes it current
func (c *Controller) AddSession(ctx context.Context, name string) (*canvas.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := cleanName(name)
	if err != nil {
		return nil, c.fail("add session", err)
	}
	concept, err := c.requireConcept()
	if err != nil {
		return nil, c.fail("add session", err)
	}
	session, err := c.backend.CreateSession(ctx, concept.ID, name)
	if err != nil {
		return nil, c.fail("add session", err)
	}
	concept.Sessions = append(concept.Sessions, session)
	concept.CurrentSessionID = session.ID
	c.state.SelectedQuestionID = ""
	c.state.SelectedAnswerID = ""
	c.persist(ctx, "add session")
	return session.Clone(), nil
}

// SwitchSession makes id the current session of the current concept
func (c *Controller) SwitchSession(ctx context.Context, id string) (*canvas.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	concept, err := c.requireConcept()
	if err != nil {
		return nil, c.fail("switch session", err)
	}
	session := concept.Session(id)
	if session == nil {
		return nil, c.fail("switch session", canvas.NewNotFoundError("session", id))
	}
	concept.CurrentSessionID = session.ID
	c.state.SelectedQuestionID = ""
	c.state.SelectedAnswerID = ""
	c.persist(ctx, "switch session")
	return session.Clone(), nil
}

// DeleteSession removes a session with its questions. The last session of a
// concept cannot be deleted.
func (c *Controller) DeleteSession(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	concept, _, err := c.state.Graph.FindSession(id)
	if err != nil {
		return c.fail("delete session", err)
	}
	if len(concept.Sessions) <= 1 {
		return c.fail("delete session", canvas.NewValidationError("session", "a concept must keep at least one session"))
	}
	if err := c.backend.DeleteSession(ctx, id); err != nil {
		return c.fail("delete session", err)
	}
	c.state.Graph.RemoveSession(id)
	c.dropSelections()
	c.persist(ctx, "delete session")
	return nil
}

// AddQuestion adds a question to the current session. With no concept at
// all a default one is created first. The new question becomes selected.
func (c *Controller) AddQuestion(ctx context.Context, text string) (*canvas.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, err := cleanText(text)
	if err != nil {
		return nil, c.fail("add question", err)
	}
	concept := c.currentConcept()
	if concept == nil {
		if concept, err = c.addConcept(ctx, canvas.DefaultConceptName); err != nil {
			return nil, err
		}
	}
	session := concept.CurrentSession()
	if session == nil {
		return nil, c.fail("add question", canvas.NewNotFoundError("session", concept.CurrentSessionID))
	}
	question, err := c.backend.CreateQuestion(ctx, session.ID, text)
	if err != nil {
		return nil, c.fail("add question", err)
	}
	session.Questions = append(session.Questions, question)
	c.state.SelectedQuestionID = question.ID
	c.persist(ctx, "add question")
	return question.Clone(), nil
}

// EditQuestion changes the text of a question; unchanged text is a no-op
func (c *Controller) EditQuestion(ctx context.Context, id, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, err := cleanText(text)
	if err != nil {
		return c.fail("edit question", err)
	}
	ref, err := c.state.Graph.FindQuestion(id)
	if err != nil {
		return c.fail("edit question", err)
	}
	if ref.Question.Text == text {
		return nil
	}
	if err := c.backend.UpdateQuestion(ctx, id, text); err != nil {
		return c.fail("edit question", err)
	}
	ref.Question.Text = text
	c.persist(ctx, "edit question")
	return nil
}

// DeleteQuestion removes a question with its answers
func (c *Controller) DeleteQuestion(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.state.Graph.FindQuestion(id); err != nil {
		return c.fail("delete question", err)
	}
	if err := c.backend.DeleteQuestion(ctx, id); err != nil {
		return c.fail("delete question", err)
	}
	c.state.Graph.RemoveQuestion(id)
	c.dropSelections()
	c.persist(ctx, "delete question")
	return nil
}

// SelectQuestion marks the question new answers go to
func (c *Controller) SelectQuestion(ctx context.Context, id string) (*canvas.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ref, err := c.state.Graph.FindQuestion(id)
	if err != nil {
		return nil, c.fail("select question", err)
	}
	c.state.SelectedQuestionID = id
	return ref.Question.Clone(), nil
}

// AddAnswer adds a grey answer to questionID, or to the selected question
// when questionID is empty. The new answer becomes selected.
func (c *Controller) AddAnswer(ctx context.Context, questionID, text string) (*canvas.Answer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, err := cleanText(text)
	if err != nil {
		return nil, c.fail("add answer", err)
	}
	if questionID == "" {
		questionID = c.state.SelectedQuestionID
	}
	if questionID == "" {
		return nil, c.fail("add answer", canvas.NewValidationError("question", "select a question first"))
	}
	ref, err := c.state.Graph.FindQuestion(questionID)
	if err != nil {
		return nil, c.fail("add answer", err)
	}
	answer, err := c.backend.CreateAnswer(ctx, questionID, text)
	if err != nil {
		return nil, c.fail("add answer", err)
	}
	ref.Question.Answers = append(ref.Question.Answers, answer)
	c.state.SelectedQuestionID = questionID
	c.state.SelectedAnswerID = answer.ID
	c.persist(ctx, "add answer")
	return answer.Clone(), nil
}

// EditAnswer changes the text of an answer; unchanged text is a no-op
func (c *Controller) EditAnswer(ctx context.Context, id, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, err := cleanText(text)
	if err != nil {
		return c.fail("edit answer", err)
	}
	ref, err := c.state.Graph.FindAnswer(id)
	if err != nil {
		return c.fail("edit answer", err)
	}
	if ref.Answer.Text == text {
		return nil
	}
	if err := c.backend.UpdateAnswerText(ctx, id, text); err != nil {
		return c.fail("edit answer", err)
	}
	ref.Answer.Text = text
	c.persist(ctx, "edit answer")
	return nil
}

// SelectAnswer marks the answer number keys recolor
func (c *Controller) SelectAnswer(ctx context.Context, id string) (*canvas.Answer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ref, err := c.state.Graph.FindAnswer(id)
	if err != nil {
		return nil, c.fail("select answer", err)
	}
	c.state.SelectedAnswerID = id
	return ref.Answer.Clone(), nil
}

// RecolorAnswer sets the rating of an answer
func (c *Controller) RecolorAnswer(ctx context.Context, id, color string) (*canvas.Answer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed, err := cleanColor(color)
	if err != nil {
		return nil, c.fail("color answer", err)
	}
	return c.recolor(ctx, id, parsed)
}

// RecolorByKey recolors the selected answer using the 1-5 keyboard mapping
func (c *Controller) RecolorByKey(ctx context.Context, key int) (*canvas.Answer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	color, err := canvas.ColorForKey(key)
	if err != nil {
		return nil, c.fail("color answer", err)
	}
	if c.state.SelectedAnswerID == "" {
		return nil, c.fail("color answer", canvas.NewValidationError("answer", "select an answer first"))
	}
	return c.recolor(ctx, c.state.SelectedAnswerID, color)
}

func (c *Controller) recolor(ctx context.Context, id string, color canvas.Color) (*canvas.Answer, error) {
	ref, err := c.state.Graph.FindAnswer(id)
	if err != nil {
		return nil, c.fail("color answer", err)
	}
	if ref.Answer.Color != color {
		if err := c.backend.UpdateAnswerColor(ctx, id, color); err != nil {
			return nil, c.fail("color answer", err)
		}
		ref.Answer.Color = color
		c.persist(ctx, "color answer")
	}
	return ref.Answer.Clone(), nil
}

// DeleteAnswer removes one answer. Its question stays even if now empty.
func (c *Controller) DeleteAnswer(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.state.Graph.FindAnswer(id); err != nil {
		return c.fail("delete answer", err)
	}
	if err := c.backend.DeleteAnswer(ctx, id); err != nil {
		return c.fail("delete answer", err)
	}
	c.state.Graph.RemoveAnswer(id)
	c.dropSelections()
	c.persist(ctx, "delete answer")
	return nil
}

// SetFilter sets the color filter for Visible
func (c *Controller) SetFilter(filter string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed, err := canvas.ParseFilter(filter)
	if err != nil {
		return "", c.fail("filter", err)
	}
	c.state.Filter = parsed
	return parsed, nil
}

// Visible returns the questions of the current session under the current filter
func (c *Controller) Visible() []canvas.VisibleQuestion {
	c.mu.Lock()
	defer c.mu.Unlock()

	concept := c.currentConcept()
	if concept == nil {
		return []canvas.VisibleQuestion{}
	}
	session := concept.CurrentSession()
	if session == nil {
		return []canvas.VisibleQuestion{}
	}
	visible := session.Clone().Visible(c.state.Filter)
	return visible
}

// Ranked groups all rated answers across concepts by color
func (c *Controller) Ranked() []canvas.RankedGroup {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Graph.Ranked()
}

// ToggleTheme flips between light and dark and stores the choice
func (c *Controller) ToggleTheme(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dark := !c.state.Dark
	if err := c.backend.SetTheme(ctx, dark); err != nil {
		return c.state.Dark, c.fail("toggle theme", err)
	}
	c.state.Dark = dark
	return dark, nil
}
