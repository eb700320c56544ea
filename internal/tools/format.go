// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"fmt"
	"strings"

	"github.com/tejzpr/ideacanvas-mcp/internal/app"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

// filterLabels names each filter the way the canvas toolbar does
var filterLabels = map[string]string{
	canvas.FilterAll:           "All Ideas",
	string(canvas.ColorGrey):   "Grey (Trash)",
	string(canvas.ColorYellow): "Yellow (Maybe)",
	string(canvas.ColorBlue):   "Blue (Decent)",
	string(canvas.ColorPurple): "Purple (Strong)",
	string(canvas.ColorGreen):  "Green (Keeper)",
}

func filterLabel(filter string) string {
	if label, ok := filterLabels[filter]; ok {
		return label
	}
	return filter
}

func marker(selected bool) string {
	if selected {
		return "*"
	}
	return "-"
}

// formatCanvas renders the state as an outline: concepts, the sessions of the
// current concept, and the current session's questions under the filter
func formatCanvas(s app.State, visible []canvas.VisibleQuestion) string {
	var sb strings.Builder

	theme := "light"
	if s.Dark {
		theme = "dark"
	}
	sb.WriteString(fmt.Sprintf("Mode: %s | Theme: %s | Filter: %s\n\n", s.Mode, theme, filterLabel(s.Filter)))

	if len(s.Graph.Concepts) == 0 {
		sb.WriteString("No concepts yet. Add a concept or a question to start.\n")
		return sb.String()
	}

	sb.WriteString("## Concepts\n")
	var current *canvas.Concept
	for _, c := range s.Graph.Concepts {
		isCurrent := c.ID == s.CurrentConceptID
		if isCurrent {
			current = c
		}
		sb.WriteString(fmt.Sprintf("%s %s [%s]\n", marker(isCurrent), c.Name, c.ID))
	}

	if current == nil {
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\n## Sessions of %s\n", current.Name))
	for _, session := range current.Sessions {
		sb.WriteString(fmt.Sprintf("%s %s [%s]\n", marker(session.ID == current.CurrentSessionID), session.Name, session.ID))
	}

	sb.WriteString("\n## Questions\n")
	if len(visible) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, q := range visible {
		sb.WriteString(fmt.Sprintf("%s %s [%s]\n", marker(q.ID == s.SelectedQuestionID), q.Text, q.ID))
		for _, a := range q.Answers {
			sel := "  "
			if a.ID == s.SelectedAnswerID {
				sel = "> "
			}
			sb.WriteString(fmt.Sprintf("    %s(%s) %s [%s]\n", sel, a.Color.Normalize(), a.Text, a.ID))
		}
	}
	return sb.String()
}

// formatRanked renders the ranked groups, best first
func formatRanked(groups []canvas.RankedGroup) string {
	if len(groups) == 0 {
		return "No rated ideas yet. Color an idea to rank it."
	}
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("## %s (%d)\n", g.Title, len(g.Ideas)))
		for _, idea := range g.Ideas {
			sb.WriteString(fmt.Sprintf("- %s\n  %s > %s\n", idea.Text, idea.ConceptName, idea.QuestionText))
		}
	}
	return sb.String()
}
