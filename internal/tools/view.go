// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/ideacanvas-mcp/internal/app"
)

// NewFilterTool creates the canvas_filter tool definition
func NewFilterTool() mcp.Tool {
	return mcp.NewTool("canvas_filter",
		mcp.WithDescription("Show only ideas of one color in canvas_list, or 'all'."),
		mcp.WithString("filter",
			mcp.Required(),
			mcp.Description("all, grey, yellow, blue, purple or green"),
		),
	)
}

// FilterHandler handles the canvas_filter tool
func FilterHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter, err := request.RequireString("filter")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		applied, err := ctx.Controller.SetFilter(filter)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Showing %s", filterLabel(applied))), nil
	}
}

// NewRankedTool creates the canvas_ranked tool definition
func NewRankedTool() mcp.Tool {
	return mcp.NewTool("canvas_ranked",
		mcp.WithDescription("List every rated idea across all concepts, grouped best first: green, purple, blue, yellow. Grey ideas are not listed."),
	)
}

// RankedHandler handles the canvas_ranked tool
func RankedHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(formatRanked(ctx.Controller.Ranked())), nil
	}
}

// NewThemeTool creates the canvas_theme tool definition
func NewThemeTool() mcp.Tool {
	return mcp.NewTool("canvas_theme",
		mcp.WithDescription("Toggle between the light and dark theme. The choice is remembered."),
	)
}

// ThemeHandler handles the canvas_theme tool
func ThemeHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dark, err := ctx.Controller.ToggleTheme(c)
		if err != nil {
			return errorResult(err), nil
		}
		if dark {
			return mcp.NewToolResultText("Theme: dark"), nil
		}
		return mcp.NewToolResultText("Theme: light"), nil
	}
}

// NewExportTool creates the canvas_export tool definition
func NewExportTool() mcp.Tool {
	return mcp.NewTool("canvas_export",
		mcp.WithDescription("Export the whole canvas as YAML, including ids and timestamps."),
		mcp.WithBoolean("current_only",
			mcp.Description("Export only the current concept (default: false)"),
		),
	)
}

// ExportHandler handles the canvas_export tool
func ExportHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		currentOnly := request.GetBool("current_only", false)

		if currentOnly {
			concept, _ := ctx.Controller.Current()
			if concept == nil {
				return mcp.NewToolResultError("no concept selected"), nil
			}
			return yamlResult("", concept)
		}
		return yamlResult("", ctx.Controller.Snapshot().Graph)
	}
}

// NewNotificationsTool creates the canvas_notifications tool definition
func NewNotificationsTool() mcp.Tool {
	return mcp.NewTool("canvas_notifications",
		mcp.WithDescription("Show messages raised in the background, such as a failed scheduled purge. Reading them clears them."),
	)
}

// NotificationsHandler handles the canvas_notifications tool
func NotificationsHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Notes == nil {
			return mcp.NewToolResultText("No notifications."), nil
		}
		notes := ctx.Notes.Drain()
		if len(notes) == 0 {
			return mcp.NewToolResultText("No notifications."), nil
		}
		var sb strings.Builder
		for _, n := range notes {
			sb.WriteString(fmt.Sprintf("[%s] %s %s\n", n.Time.Format("15:04:05"), levelTag(n.Level), n.Message))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func levelTag(l app.Level) string {
	return strings.ToUpper(string(l))
}
