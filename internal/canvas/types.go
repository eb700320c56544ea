// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package canvas holds the in-memory brainstorming graph:
// concepts own sessions, sessions own questions, questions own answers.
package canvas

import (
	"encoding/json"
	"strings"
	"time"
)

// Default names used when the canvas synthesizes entities on its own
const (
	DefaultConceptName = "Main Canvas - Sticky Notes Variant"
	DefaultSessionName = "Session 1"
)

// Color is the rating of an answer. Grey doubles as the "marked for deletion" state.
type Color string

// Color constants
const (
	ColorGrey   Color = "grey"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorGreen  Color = "green"
)

// ValidColors returns all colors in keyboard order (1..5)
func ValidColors() []Color {
	return []Color{ColorGrey, ColorYellow, ColorBlue, ColorPurple, ColorGreen}
}

// IsValidColor checks if a color is one of the five ratings
func IsValidColor(c Color) bool {
	for _, valid := range ValidColors() {
		if c == valid {
			return true
		}
	}
	return false
}

// ParseColor parses a user supplied color name
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidColor(c) {
		return "", NewValidationError("color", "must be one of grey, yellow, blue, purple, green")
	}
	return c, nil
}

// ColorForKey maps the number keys 1-5 to a color
func ColorForKey(key int) (Color, error) {
	colors := ValidColors()
	if key < 1 || key > len(colors) {
		return "", NewValidationError("key", "color keys are 1 to 5")
	}
	return colors[key-1], nil
}

// Normalize returns grey for absent or unknown colors
func (c Color) Normalize() Color {
	if IsValidColor(c) {
		return c
	}
	return ColorGrey
}

// Label returns the human label shown next to a color
func (c Color) Label() string {
	switch c.Normalize() {
	case ColorYellow:
		return "Maybe"
	case ColorBlue:
		return "Decent"
	case ColorPurple:
		return "Strong"
	case ColorGreen:
		return "Keeper"
	default:
		return "Trash"
	}
}

// Priority is the ranking weight; grey is never ranked
func (c Color) Priority() int {
	switch c.Normalize() {
	case ColorGreen:
		return 4
	case ColorPurple:
		return 3
	case ColorBlue:
		return 2
	case ColorYellow:
		return 1
	default:
		return 0
	}
}

// UnmarshalJSON decodes a color, treating anything unexpected as grey
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value
		*c = ColorGrey
		return nil
	}
	*c = Color(strings.ToLower(s)).Normalize()
	return nil
}

// Answer is a single idea under a question
type Answer struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Color     Color     `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Question is a prompt collecting answers
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Answers   []*Answer `json:"answers" yaml:"answers"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Session is one brainstorming sitting within a concept
type Session struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Questions []*Question `json:"questions" yaml:"questions"`
	CreatedAt time.Time   `json:"createdAt" yaml:"created_at"`
}

// Concept is a top-level canvas. It always owns at least one session.
type Concept struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Sessions         []*Session `json:"sessions" yaml:"sessions"`
	CurrentSessionID string     `json:"currentSessionId" yaml:"current_session_id"`
	CreatedAt        time.Time  `json:"createdAt" yaml:"created_at"`
}

// NewConcept builds a concept with its default session set as current
func NewConcept(id, name, sessionID string, now time.Time) *Concept {
	session := NewSession(sessionID, DefaultSessionName, now)
	return &Concept{
		ID:               id,
		Name:             name,
		Sessions:         []*Session{session},
		CurrentSessionID: session.ID,
		CreatedAt:        now,
	}
}

// NewSession builds an empty session
func NewSession(id, name string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Name:      name,
		Questions: []*Question{},
		CreatedAt: now,
	}
}

// NewQuestion builds a question with no answers
func NewQuestion(id, text string, now time.Time) *Question {
	return &Question{
		ID:        id,
		Text:      text,
		Answers:   []*Answer{},
		CreatedAt: now,
	}
}

// NewAnswer builds a grey answer
func NewAnswer(id, text string, now time.Time) *Answer {
	return &Answer{
		ID:        id,
		Text:      text,
		Color:     ColorGrey,
		CreatedAt: now,
	}
}

// CurrentSession resolves the current session, repairing a dangling id to the first session
func (c *Concept) CurrentSession() *Session {
	if len(c.Sessions) == 0 {
		return nil
	}
	for _, s := range c.Sessions {
		if s.ID == c.CurrentSessionID {
			return s
		}
	}
	c.CurrentSessionID = c.Sessions[0].ID
	return c.Sessions[0]
}

// Session finds a session of this concept by id
func (c *Concept) Session(id string) *Session {
	for _, s := range c.Sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Question finds a question of this session by id
func (s *Session) Question(id string) *Question {
	for _, q := range s.Questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// Answer finds an answer of this question by id
func (q *Question) Answer(id string) *Answer {
	for _, a := range q.Answers {
		if a.ID == id {
			return a
		}
	}
	return nil
}
