// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Ranked_OrderAndGrouping(t *testing.T) {
	c := NewConcept("c1", "Concept", "s1", testNow)
	q := NewQuestion("q1", "What if?", testNow)
	q.Answers = []*Answer{
		answer("g1", ColorGreen),
		answer("g2", ColorGreen),
		answer("b1", ColorBlue),
		answer("y1", ColorYellow),
		answer("p1", ColorPurple),
		answer("x1", ColorGrey),
	}
	c.Sessions[0].Questions = []*Question{q}
	g := NewGraph([]*Concept{c})

	groups := g.Ranked()

	require.Len(t, groups, 4)
	var order []Color
	for _, group := range groups {
		order = append(order, group.Color)
		for _, idea := range group.Ideas {
			assert.NotEqual(t, ColorGrey, idea.Color)
			assert.Equal(t, "Concept", idea.ConceptName)
			assert.Equal(t, "What if?", idea.QuestionText)
		}
	}
	assert.Equal(t, []Color{ColorGreen, ColorPurple, ColorBlue, ColorYellow}, order)

	require.Len(t, groups[0].Ideas, 2)
	assert.Equal(t, "g1", groups[0].Ideas[0].ID)
	assert.Equal(t, "g2", groups[0].Ideas[1].ID)
	assert.Equal(t, "Keepers (Green)", groups[0].Title)
}

func TestGraph_Ranked_SpansConcepts(t *testing.T) {
	c1 := NewConcept("c1", "First", "s1", testNow)
	q1 := NewQuestion("q1", "Q1", testNow)
	q1.Answers = []*Answer{answer("a1", ColorBlue)}
	c1.Sessions[0].Questions = []*Question{q1}

	c2 := NewConcept("c2", "Second", "s2", testNow)
	q2 := NewQuestion("q2", "Q2", testNow)
	q2.Answers = []*Answer{answer("a2", ColorBlue)}
	c2.Sessions[0].Questions = []*Question{q2}

	groups := NewGraph([]*Concept{c1, c2}).Ranked()

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Ideas, 2)
	assert.Equal(t, "First", groups[0].Ideas[0].ConceptName)
	assert.Equal(t, "Second", groups[0].Ideas[1].ConceptName)
}

func TestGraph_Ranked_Empty(t *testing.T) {
	g := testGraph()
	g.PruneGrey()
	g.RemoveAnswer("a2")

	assert.Empty(t, g.Ranked())
}

func TestSession_Visible(t *testing.T) {
	g := testGraph()
	s := g.Concepts[0].Sessions[0]

	all := s.Visible(FilterAll)
	require.Len(t, all, 3)
	assert.Len(t, all[0].Answers, 2)

	green := s.Visible(string(ColorGreen))
	require.Len(t, green, 3)
	require.Len(t, green[0].Answers, 1)
	assert.Equal(t, "a2", green[0].Answers[0].ID)
	assert.Empty(t, green[1].Answers)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{" Green ", "green", false},
		{"grey", "grey", false},
		{"red", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
