// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package remote

import (
	"sort"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"github.com/tejzpr/ideacanvas-mcp/internal/database"
)

// graphFromRows converts nested rows into the in-memory graph. Concepts keep
// the order they were loaded in (newest first), children are sorted oldest
// first and the first session becomes current.
func graphFromRows(rows []database.ConceptRow) *canvas.Graph {
	concepts := make([]*canvas.Concept, 0, len(rows))
	for _, cr := range rows {
		c := &canvas.Concept{
			ID:        cr.ID,
			Name:      cr.Name,
			Sessions:  make([]*canvas.Session, 0, len(cr.Sessions)),
			CreatedAt: cr.CreatedAt,
		}
		sessions := cr.Sessions
		sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
		for _, sr := range sessions {
			s := canvas.NewSession(sr.ID, sr.Name, sr.CreatedAt)
			questions := sr.Questions
			sort.SliceStable(questions, func(i, j int) bool { return questions[i].CreatedAt.Before(questions[j].CreatedAt) })
			for _, qr := range questions {
				q := canvas.NewQuestion(qr.ID, qr.Text, qr.CreatedAt)
				ideas := qr.Ideas
				sort.SliceStable(ideas, func(i, j int) bool { return ideas[i].CreatedAt.Before(ideas[j].CreatedAt) })
				for _, ir := range ideas {
					a := canvas.NewAnswer(ir.ID, ir.Text, ir.CreatedAt)
					a.Color = canvas.Color(ir.Color).Normalize()
					q.Answers = append(q.Answers, a)
				}
				s.Questions = append(s.Questions, q)
			}
			c.Sessions = append(c.Sessions, s)
		}
		if len(c.Sessions) > 0 {
			c.CurrentSessionID = c.Sessions[0].ID
		}
		concepts = append(concepts, c)
	}
	return canvas.NewGraph(concepts)
}
