// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"fmt"
)

// Graph is the complete set of concepts owned by one user
type Graph struct {
	Concepts []*Concept `json:"concepts" yaml:"concepts"`
}

// NewGraph wraps concepts into a graph and normalizes them
func NewGraph(concepts []*Concept) *Graph {
	if concepts == nil {
		concepts = []*Concept{}
	}
	g := &Graph{Concepts: concepts}
	g.Normalize()
	return g
}

// QuestionRef locates a question and its owners
type QuestionRef struct {
	Concept  *Concept
	Session  *Session
	Question *Question
}

// AnswerRef locates an answer and its owners
type AnswerRef struct {
	QuestionRef
	Answer *Answer
}

// PruneResult lists what a prune removed
type PruneResult struct {
	AnswerIDs   []string `json:"answer_ids" yaml:"answer_ids"`
	QuestionIDs []string `json:"question_ids" yaml:"question_ids"`
}

// Empty reports whether nothing was removed
func (r PruneResult) Empty() bool {
	return len(r.AnswerIDs) == 0 && len(r.QuestionIDs) == 0
}

// Normalize fills nil collections, maps unknown colors to grey and repairs
// dangling current session ids
func (g *Graph) Normalize() {
	for _, c := range g.Concepts {
		if c.Sessions == nil {
			c.Sessions = []*Session{}
		}
		for _, s := range c.Sessions {
			if s.Questions == nil {
				s.Questions = []*Question{}
			}
			for _, q := range s.Questions {
				if q.Answers == nil {
					q.Answers = []*Answer{}
				}
				for _, a := range q.Answers {
					a.Color = a.Color.Normalize()
				}
			}
		}
		c.CurrentSession()
	}
}

// Validate checks the graph invariants
func (g *Graph) Validate() error {
	for _, c := range g.Concepts {
		if len(c.Sessions) == 0 {
			return fmt.Errorf("concept %q has no sessions", c.ID)
		}
		if c.Session(c.CurrentSessionID) == nil {
			return fmt.Errorf("concept %q current session %q is not one of its sessions", c.ID, c.CurrentSessionID)
		}
		for _, s := range c.Sessions {
			for _, q := range s.Questions {
				for _, a := range q.Answers {
					if !IsValidColor(a.Color) {
						return fmt.Errorf("answer %q has invalid color %q", a.ID, a.Color)
					}
				}
			}
		}
	}
	return nil
}

// FindConcept returns the concept with the given id
func (g *Graph) FindConcept(id string) (*Concept, error) {
	for _, c := range g.Concepts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, NewNotFoundError("concept", id)
}

// FindSession returns a session and its concept
func (g *Graph) FindSession(id string) (*Concept, *Session, error) {
	for _, c := range g.Concepts {
		if s := c.Session(id); s != nil {
			return c, s, nil
		}
	}
	return nil, nil, NewNotFoundError("session", id)
}

// FindQuestion returns a question and its owners
func (g *Graph) FindQuestion(id string) (QuestionRef, error) {
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			if q := s.Question(id); q != nil {
				return QuestionRef{Concept: c, Session: s, Question: q}, nil
			}
		}
	}
	return QuestionRef{}, NewNotFoundError("question", id)
}

// FindAnswer returns an answer and its owners
func (g *Graph) FindAnswer(id string) (AnswerRef, error) {
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			for _, q := range s.Questions {
				if a := q.Answer(id); a != nil {
					return AnswerRef{
						QuestionRef: QuestionRef{Concept: c, Session: s, Question: q},
						Answer:      a,
					}, nil
				}
			}
		}
	}
	return AnswerRef{}, NewNotFoundError("answer", id)
}

// RemoveConcept deletes a concept and everything it owns
func (g *Graph) RemoveConcept(id string) bool {
	for i, c := range g.Concepts {
		if c.ID == id {
			g.Concepts = append(g.Concepts[:i], g.Concepts[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveSession deletes a session and its questions, repairing the current session
func (g *Graph) RemoveSession(id string) bool {
	for _, c := range g.Concepts {
		for i, s := range c.Sessions {
			if s.ID == id {
				c.Sessions = append(c.Sessions[:i], c.Sessions[i+1:]...)
				c.CurrentSession()
				return true
			}
		}
	}
	return false
}

// RemoveQuestion deletes a question and its answers
func (g *Graph) RemoveQuestion(id string) bool {
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			for i, q := range s.Questions {
				if q.ID == id {
					s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
					return true
				}
			}
		}
	}
	return false
}

// RemoveAnswer deletes a single answer
func (g *Graph) RemoveAnswer(id string) bool {
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			for _, q := range s.Questions {
				for i, a := range q.Answers {
					if a.ID == id {
						q.Answers = append(q.Answers[:i], q.Answers[i+1:]...)
						return true
					}
				}
			}
		}
	}
	return false
}

// GreyAnswerIDs collects every answer marked grey, in graph order
func (g *Graph) GreyAnswerIDs() []string {
	ids := []string{}
	g.eachAnswer(func(_ *Question, a *Answer) {
		if a.Color.Normalize() == ColorGrey {
			ids = append(ids, a.ID)
		}
	})
	return ids
}

// PruneGrey removes grey answers and the questions left empty by that removal
func (g *Graph) PruneGrey() PruneResult {
	return g.PruneAnswers(g.GreyAnswerIDs())
}

// PruneAnswers removes the given answers and then any question that lost its
// last answer in this call. Questions that were already empty are kept.
func (g *Graph) PruneAnswers(ids []string) PruneResult {
	result := PruneResult{AnswerIDs: []string{}, QuestionIDs: []string{}}
	if len(ids) == 0 {
		return result
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			kept := s.Questions[:0]
			for _, q := range s.Questions {
				before := len(q.Answers)
				answers := q.Answers[:0]
				for _, a := range q.Answers {
					if doomed[a.ID] {
						result.AnswerIDs = append(result.AnswerIDs, a.ID)
						continue
					}
					answers = append(answers, a)
				}
				q.Answers = answers
				if before > 0 && len(q.Answers) == 0 {
					result.QuestionIDs = append(result.QuestionIDs, q.ID)
					continue
				}
				kept = append(kept, q)
			}
			s.Questions = kept
		}
	}
	return result
}

// PlanPrune reports what PruneAnswers(ids) would remove without changing the graph
func (g *Graph) PlanPrune(ids []string) PruneResult {
	result := PruneResult{AnswerIDs: []string{}, QuestionIDs: []string{}}
	if len(ids) == 0 {
		return result
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			for _, q := range s.Questions {
				left := 0
				for _, a := range q.Answers {
					if doomed[a.ID] {
						result.AnswerIDs = append(result.AnswerIDs, a.ID)
						continue
					}
					left++
				}
				if len(q.Answers) > 0 && left == 0 {
					result.QuestionIDs = append(result.QuestionIDs, q.ID)
				}
			}
		}
	}
	return result
}

// CountAnswers returns the number of answers across the graph
func (g *Graph) CountAnswers() int {
	n := 0
	g.eachAnswer(func(*Question, *Answer) { n++ })
	return n
}

func (g *Graph) eachAnswer(fn func(*Question, *Answer)) {
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			for _, q := range s.Questions {
				for _, a := range q.Answers {
					fn(q, a)
				}
			}
		}
	}
}
