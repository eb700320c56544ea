// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewAddQuestionTool creates the canvas_add_question tool definition
func NewAddQuestionTool() mcp.Tool {
	return mcp.NewTool("canvas_add_question",
		mcp.WithDescription("Add a question to the current session. The new question is selected, so canvas_add_answer can follow without an id. Creates a concept first if there is none."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Question text, e.g. 'What if the product was free?'"),
		),
	)
}

// AddQuestionHandler handles the canvas_add_question tool
func AddQuestionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		q, err := ctx.Controller.AddQuestion(c, text)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Question added [%s] and selected", q.ID)), nil
	}
}

// NewEditQuestionTool creates the canvas_edit_question tool definition
func NewEditQuestionTool() mcp.Tool {
	return mcp.NewTool("canvas_edit_question",
		mcp.WithDescription("Change the text of a question."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Question id"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New text"),
		),
	)
}

// EditQuestionHandler handles the canvas_edit_question tool
func EditQuestionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.EditQuestion(c, id, text); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Question updated"), nil
	}
}

// NewDeleteQuestionTool creates the canvas_delete_question tool definition
func NewDeleteQuestionTool() mcp.Tool {
	return mcp.NewTool("canvas_delete_question",
		mcp.WithDescription("Permanently delete a question and all of its ideas."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Question id"),
		),
	)
}

// DeleteQuestionHandler handles the canvas_delete_question tool
func DeleteQuestionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.DeleteQuestion(c, id); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Question deleted"), nil
	}
}

// NewSelectQuestionTool creates the canvas_select_question tool definition
func NewSelectQuestionTool() mcp.Tool {
	return mcp.NewTool("canvas_select_question",
		mcp.WithDescription("Select the question that new ideas are added to."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Question id"),
		),
	)
}

// SelectQuestionHandler handles the canvas_select_question tool
func SelectQuestionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		q, err := ctx.Controller.SelectQuestion(c, id)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Selected question: %s", q.Text)), nil
	}
}
