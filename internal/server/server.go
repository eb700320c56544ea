// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/ideacanvas-mcp/internal/app"
	"github.com/tejzpr/ideacanvas-mcp/internal/tools"
	"go.uber.org/zap"
)

// Server identity reported to MCP clients
const (
	Name    = "IdeaCanvas"
	Version = "1.0.0"
)

// MCPServer wraps the mcp-go server with the canvas tools
type MCPServer struct {
	mcpServer  *server.MCPServer
	controller *app.Controller
	toolCtx    *tools.ToolContext
	logger     *zap.Logger
}

// NewMCPServer creates a server exposing every canvas tool for controller
func NewMCPServer(controller *app.Controller, notes *app.NotificationLog, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	mcpServer := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
	)

	srv := &MCPServer{
		mcpServer:  mcpServer,
		controller: controller,
		toolCtx:    tools.NewToolContext(controller, notes, logger),
		logger:     logger,
	}
	srv.registerTools()
	return srv
}

func (s *MCPServer) registerTools() {
	entries := tools.All(s.toolCtx)
	for _, e := range entries {
		s.mcpServer.AddTool(e.Tool, server.ToolHandlerFunc(e.Handler))
	}
	s.logger.Debug("registered tools", zap.Int("count", len(entries)))
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects
func (s *MCPServer) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ToolContext returns the context the tools are bound to
func (s *MCPServer) ToolContext() *tools.ToolContext {
	return s.toolCtx
}
