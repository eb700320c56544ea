// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewAddSessionTool creates the canvas_add_session tool definition
func NewAddSessionTool() mcp.Tool {
	return mcp.NewTool("canvas_add_session",
		mcp.WithDescription("Add a session to the current concept and switch to it."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Session name, e.g. 'Session 2'"),
		),
	)
}

// AddSessionHandler handles the canvas_add_session tool
func AddSessionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		session, err := ctx.Controller.AddSession(c, name)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Session '%s' created [%s] and selected", session.Name, session.ID)), nil
	}
}

// NewSwitchSessionTool creates the canvas_switch_session tool definition
func NewSwitchSessionTool() mcp.Tool {
	return mcp.NewTool("canvas_switch_session",
		mcp.WithDescription("Switch to another session of the current concept."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Session id"),
		),
	)
}

// SwitchSessionHandler handles the canvas_switch_session tool
func SwitchSessionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		session, err := ctx.Controller.SwitchSession(c, id)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Switched to session '%s'", session.Name)), nil
	}
}

// NewDeleteSessionTool creates the canvas_delete_session tool definition
func NewDeleteSessionTool() mcp.Tool {
	return mcp.NewTool("canvas_delete_session",
		mcp.WithDescription("Permanently delete a session with its questions and ideas. A concept's last session cannot be deleted."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Session id"),
		),
	)
}

// DeleteSessionHandler handles the canvas_delete_session tool
func DeleteSessionHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := ctx.Controller.DeleteSession(c, id); err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText("Session deleted"), nil
	}
}
