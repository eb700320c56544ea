// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

// Clone returns a deep copy of the answer
func (a *Answer) Clone() *Answer {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Clone returns a deep copy of the question
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	c := *q
	c.Answers = make([]*Answer, 0, len(q.Answers))
	for _, a := range q.Answers {
		c.Answers = append(c.Answers, a.Clone())
	}
	return &c
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = make([]*Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		c.Questions = append(c.Questions, q.Clone())
	}
	return &c
}

// Clone returns a deep copy of the concept
func (c *Concept) Clone() *Concept {
	if c == nil {
		return nil
	}
	out := *c
	out.Sessions = make([]*Session, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		out.Sessions = append(out.Sessions, s.Clone())
	}
	return &out
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	out := &Graph{Concepts: make([]*Concept, 0, len(g.Concepts))}
	for _, c := range g.Concepts {
		out.Concepts = append(out.Concepts, c.Clone())
	}
	return out
}
