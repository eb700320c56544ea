// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/ideacanvas-mcp/internal/app"
)

// NewPurgeTool creates the canvas_purge tool definition
func NewPurgeTool() mcp.Tool {
	return mcp.NewTool("canvas_purge",
		mcp.WithDescription("Permanently delete every grey idea in every concept, plus any question left with no ideas by this purge. Concepts and sessions are kept. This also runs on its own when the canvas goes idle and on shutdown."),
	)
}

// PurgeHandler handles the canvas_purge tool
func PurgeHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := ctx.Controller.Purge(c, app.TriggerManual)
		if err != nil {
			return errorResult(err), nil
		}
		if result.Empty() {
			return mcp.NewToolResultText("Nothing to purge: no grey ideas."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Purged %d grey idea(s) and %d emptied question(s)",
			len(result.AnswerIDs), len(result.QuestionIDs))), nil
	}
}
