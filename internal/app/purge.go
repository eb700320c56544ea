// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"context"

	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"go.uber.org/zap"
)

// Trigger names what started a purge
type Trigger string

// Triggers
const (
	// TriggerUnload fires when the process is shutting down
	TriggerUnload Trigger = "unload"
	// TriggerHidden fires when the canvas goes idle
	TriggerHidden Trigger = "hidden"
	// TriggerManual is an explicit user request
	TriggerManual Trigger = "manual"
)

// Purge permanently removes every grey answer, then every question the
// purge left empty. Concepts and sessions are never removed. If the backend
// fails the in-memory graph is left as it was.
func (c *Controller) Purge(ctx context.Context, trigger Trigger) (canvas.PruneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.state.Graph.GreyAnswerIDs()
	if len(ids) == 0 {
		return canvas.PruneResult{}, nil
	}

	plan := c.state.Graph.PlanPrune(ids)
	if err := c.backend.Purge(ctx, plan); err != nil {
		return canvas.PruneResult{}, c.fail("purge", err)
	}

	result := c.state.Graph.PruneAnswers(ids)
	c.dropSelections()
	c.persist(ctx, "purge")

	c.logger.Info("grey answers purged",
		zap.String("trigger", string(trigger)),
		zap.Int("answers", len(result.AnswerIDs)),
		zap.Int("questions", len(result.QuestionIDs)))
	return result, nil
}
