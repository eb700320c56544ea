// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"strings"
)

// FilterAll shows answers of every color
const FilterAll = "all"

// RankedIdea is one answer in the ranked view
type RankedIdea struct {
	ID           string `json:"id" yaml:"id"`
	Text         string `json:"text" yaml:"text"`
	Color        Color  `json:"color" yaml:"color"`
	ConceptName  string `json:"concept_name" yaml:"concept_name"`
	QuestionText string `json:"question_text" yaml:"question_text"`
}

// RankedGroup is all ideas of one color
type RankedGroup struct {
	Color Color        `json:"color" yaml:"color"`
	Title string       `json:"title" yaml:"title"`
	Ideas []RankedIdea `json:"ideas" yaml:"ideas"`
}

// rankOrder lists the colors shown in the ranked view, best first
var rankOrder = []Color{ColorGreen, ColorPurple, ColorBlue, ColorYellow}

var rankTitles = map[Color]string{
	ColorGreen:  "Keepers (Green)",
	ColorPurple: "Strong (Purple)",
	ColorBlue:   "Decent (Blue)",
	ColorYellow: "Maybe (Yellow)",
}

// Ranked groups every non-grey answer across all concepts by color.
// Empty groups are omitted and insertion order is kept inside a group.
func (g *Graph) Ranked() []RankedGroup {
	buckets := make(map[Color][]RankedIdea, len(rankOrder))
	for _, c := range g.Concepts {
		for _, s := range c.Sessions {
			for _, q := range s.Questions {
				for _, a := range q.Answers {
					color := a.Color.Normalize()
					if color.Priority() == 0 {
						continue
					}
					buckets[color] = append(buckets[color], RankedIdea{
						ID:           a.ID,
						Text:         a.Text,
						Color:        color,
						ConceptName:  c.Name,
						QuestionText: q.Text,
					})
				}
			}
		}
	}

	groups := []RankedGroup{}
	for _, color := range rankOrder {
		ideas := buckets[color]
		if len(ideas) == 0 {
			continue
		}
		groups = append(groups, RankedGroup{
			Color: color,
			Title: rankTitles[color],
			Ideas: ideas,
		})
	}
	return groups
}

// ParseFilter accepts "all" or a color name
func ParseFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == FilterAll {
		return FilterAll, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return "", NewValidationError("filter", "must be 'all' or a color")
	}
	return string(c), nil
}

// Shows reports whether an answer passes the filter
func Shows(filter string, a *Answer) bool {
	if filter == "" || filter == FilterAll {
		return true
	}
	return string(a.Color.Normalize()) == filter
}

// VisibleQuestion is a question with the answers that pass a filter
type VisibleQuestion struct {
	ID      string    `json:"id" yaml:"id"`
	Text    string    `json:"text" yaml:"text"`
	Answers []*Answer `json:"answers" yaml:"answers"`
}

// Visible returns the questions of a session with answers filtered by color
func (s *Session) Visible(filter string) []VisibleQuestion {
	out := make([]VisibleQuestion, 0, len(s.Questions))
	for _, q := range s.Questions {
		answers := []*Answer{}
		for _, a := range q.Answers {
			if Shows(filter, a) {
				answers = append(answers, a)
			}
		}
		out = append(out, VisibleQuestion{ID: q.ID, Text: q.Text, Answers: answers})
	}
	return out
}
