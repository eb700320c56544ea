// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handler is the signature every tool handler shares
type Handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Entry pairs a tool definition with its handler
type Entry struct {
	Tool    mcp.Tool
	Handler Handler
}

// All returns every canvas tool bound to ctx
func All(ctx *ToolContext) []Entry {
	return []Entry{
		{NewListTool(), ListHandler(ctx)},

		{NewAddConceptTool(), AddConceptHandler(ctx)},
		{NewSwitchConceptTool(), SwitchConceptHandler(ctx)},
		{NewRenameConceptTool(), RenameConceptHandler(ctx)},
		{NewDeleteConceptTool(), DeleteConceptHandler(ctx)},

		{NewAddSessionTool(), AddSessionHandler(ctx)},
		{NewSwitchSessionTool(), SwitchSessionHandler(ctx)},
		{NewDeleteSessionTool(), DeleteSessionHandler(ctx)},

		{NewAddQuestionTool(), AddQuestionHandler(ctx)},
		{NewEditQuestionTool(), EditQuestionHandler(ctx)},
		{NewDeleteQuestionTool(), DeleteQuestionHandler(ctx)},
		{NewSelectQuestionTool(), SelectQuestionHandler(ctx)},

		{NewAddAnswerTool(), AddAnswerHandler(ctx)},
		{NewEditAnswerTool(), EditAnswerHandler(ctx)},
		{NewColorAnswerTool(), ColorAnswerHandler(ctx)},
		{NewSelectAnswerTool(), SelectAnswerHandler(ctx)},
		{NewDeleteAnswerTool(), DeleteAnswerHandler(ctx)},

		{NewFilterTool(), FilterHandler(ctx)},
		{NewRankedTool(), RankedHandler(ctx)},
		{NewPurgeTool(), PurgeHandler(ctx)},
		{NewThemeTool(), ThemeHandler(ctx)},
		{NewInspirationTool(), InspirationHandler(ctx)},
		{NewExportTool(), ExportHandler(ctx)},
		{NewNotificationsTool(), NotificationsHandler(ctx)},
	}
}
