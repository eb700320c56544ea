// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/ideacanvas-mcp/internal/app"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ToolContext holds shared dependencies for all tools
type ToolContext struct {
	Controller *app.Controller
	Notes      *app.NotificationLog
	Logger     *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewToolContext creates a tool context around a started controller
func NewToolContext(controller *app.Controller, notes *app.NotificationLog, logger *zap.Logger) *ToolContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolContext{
		Controller: controller,
		Notes:      notes,
		Logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the random source used for word deals, for tests
func (tc *ToolContext) SetRand(rng *rand.Rand) {
	tc.rngMu.Lock()
	defer tc.rngMu.Unlock()
	tc.rng = rng
}

func (tc *ToolContext) withRand(fn func(*rand.Rand)) {
	tc.rngMu.Lock()
	defer tc.rngMu.Unlock()
	fn(tc.rng)
}

// errorResult turns err into the message the user sees
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(canvas.UserMessage(err))
}

// yamlResult renders v as YAML under a one-line heading
func yamlResult(heading string, v interface{}) (*mcp.CallToolResult, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render result: %v", err)), nil
	}
	var sb strings.Builder
	if heading != "" {
		sb.WriteString(heading)
		sb.WriteString("\n\n")
	}
	sb.Write(out)
	return mcp.NewToolResultText(sb.String()), nil
}
