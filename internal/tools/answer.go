// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

// NewAddAnswerTool creates the canvas_add_answer tool definition
func NewAddAnswerTool() mcp.Tool {
	return mcp.NewTool("canvas_add_answer",
		mcp.WithDescription("Add an idea to a question. New ideas start grey (unrated); grey ideas are purged when the canvas goes idle or shuts down, so rate the ones worth keeping."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Idea text"),
		),
		mcp.WithString("question_id",
			mcp.Description("Question id. Defaults to the selected question."),
		),
	)
}

// AddAnswerHandler handles the canvas_add_answer tool
func AddAnswerHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		questionID := request.GetString("question_id", "")

		a, err := ctx.Controller.AddAnswer(c, questionID, text)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Idea added [%s] as grey and selected", a.ID)), nil
	}
}

// NewEditAnswerTool creates the canvas_edit_answer tool definition
func NewEditAnswerTool() mcp.Tool {
	return mcp.NewTool("canvas_edit_answer",
		mcp.WithDescription("Change the text of an idea. Its color is kept."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Idea id"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New text"),
		),
	)
}

// EditAnswerHandler handles the canvas_edit_answer tool
func EditAnswerHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.EditAnswer(c, id, text); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Idea updated"), nil
	}
}

// NewColorAnswerTool creates the canvas_color_answer tool definition
func NewColorAnswerTool() mcp.Tool {
	return mcp.NewTool("canvas_color_answer",
		mcp.WithDescription("Rate an idea by color: grey (trash), yellow (maybe), blue (decent), purple (strong), green (keeper). Pass either a color name or a key 1-5 in that order. Without an id the selected idea is rated."),
		mcp.WithString("id",
			mcp.Description("Idea id. Defaults to the selected idea."),
		),
		mcp.WithString("color",
			mcp.Description("grey, yellow, blue, purple or green"),
		),
		mcp.WithNumber("key",
			mcp.Description("Number key 1-5, used when color is not given"),
		),
	)
}

// ColorAnswerHandler handles the canvas_color_answer tool
func ColorAnswerHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("id", "")
		color := request.GetString("color", "")
		key := int(request.GetFloat("key", 0))

		if color == "" && key == 0 {
			return mcp.NewToolResultError("please provide 'color' or 'key'"), nil
		}

		if id != "" {
			if _, err := ctx.Controller.SelectAnswer(c, id); err != nil {
				return errorResult(err), nil
			}
		}

		var (
			a   *canvas.Answer
			err error
		)
		if color != "" {
			if id == "" {
				id = ctx.Controller.Snapshot().SelectedAnswerID
			}
			if id == "" {
				return mcp.NewToolResultError("no idea selected; pass 'id'"), nil
			}
			a, err = ctx.Controller.RecolorAnswer(c, id, color)
		} else {
			a, err = ctx.Controller.RecolorByKey(c, key)
		}
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Idea is now %s (%s)", a.Color, a.Color.Label())), nil
	}
}

// NewSelectAnswerTool creates the canvas_select_answer tool definition
func NewSelectAnswerTool() mcp.Tool {
	return mcp.NewTool("canvas_select_answer",
		mcp.WithDescription("Select an idea so canvas_color_answer can rate it by key."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Idea id"),
		),
	)
}

// SelectAnswerHandler handles the canvas_select_answer tool
func SelectAnswerHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		a, err := ctx.Controller.SelectAnswer(c, id)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Selected idea: %s (%s)", a.Text, a.Color)), nil
	}
}

// NewDeleteAnswerTool creates the canvas_delete_answer tool definition
func NewDeleteAnswerTool() mcp.Tool {
	return mcp.NewTool("canvas_delete_answer",
		mcp.WithDescription("Permanently delete one idea now, without waiting for a purge."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Idea id"),
		),
	)
}

// DeleteAnswerHandler handles the canvas_delete_answer tool
func DeleteAnswerHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.DeleteAnswer(c, id); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Idea deleted"), nil
	}
}
