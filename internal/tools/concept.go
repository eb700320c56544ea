// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewListTool creates the canvas_list tool definition
func NewListTool() mcp.Tool {
	return mcp.NewTool("canvas_list",
		mcp.WithDescription("Show the canvas: all concepts, the sessions of the current concept, and the questions and ideas of the current session under the active color filter. Ids in brackets are what the other tools take."),
	)
}

// ListHandler handles the canvas_list tool
func ListHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state := ctx.Controller.Snapshot()
		return mcp.NewToolResultText(formatCanvas(state, ctx.Controller.Visible())), nil
	}
}

// NewAddConceptTool creates the canvas_add_concept tool definition
func NewAddConceptTool() mcp.Tool {
	return mcp.NewTool("canvas_add_concept",
		mcp.WithDescription("Start a new concept. It gets a first session and becomes the current concept."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Concept name"),
		),
	)
}

// AddConceptHandler handles the canvas_add_concept tool
func AddConceptHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		concept, err := ctx.Controller.AddConcept(c, name)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Concept '%s' created [%s] and selected", concept.Name, concept.ID)), nil
	}
}

// NewSwitchConceptTool creates the canvas_switch_concept tool definition
func NewSwitchConceptTool() mcp.Tool {
	return mcp.NewTool("canvas_switch_concept",
		mcp.WithDescription("Make another concept the current one."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Concept id"),
		),
	)
}

// SwitchConceptHandler handles the canvas_switch_concept tool
func SwitchConceptHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		concept, err := ctx.Controller.SwitchConcept(c, id)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Switched to concept '%s'", concept.Name)), nil
	}
}

// NewRenameConceptTool creates the canvas_rename_concept tool definition
func NewRenameConceptTool() mcp.Tool {
	return mcp.NewTool("canvas_rename_concept",
		mcp.WithDescription("Rename a concept."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Concept id"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New name"),
		),
	)
}

// RenameConceptHandler handles the canvas_rename_concept tool
func RenameConceptHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.RenameConcept(c, id, name); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Concept renamed"), nil
	}
}

// NewDeleteConceptTool creates the canvas_delete_concept tool definition
func NewDeleteConceptTool() mcp.Tool {
	return mcp.NewTool("canvas_delete_concept",
		mcp.WithDescription("Permanently delete a concept with all of its sessions, questions and ideas. This cannot be undone."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Concept id"),
		),
	)
}

// DeleteConceptHandler handles the canvas_delete_concept tool
func DeleteConceptHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.DeleteConcept(c, id); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Concept deleted"), nil
	}
}
