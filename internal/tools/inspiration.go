// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/ideacanvas-mcp/internal/inspiration"
)

// NewInspirationTool creates the canvas_inspiration tool definition
func NewInspirationTool() mcp.Tool {
	return mcp.NewTool("canvas_inspiration",
		mcp.WithDescription("Get unstuck. With no arguments, lists the question template categories. With 'category', lists its templates; add 'template' (1-based) to add that question, filling blanks with 'subject'. With 'words', deals random words; with 'word', adds 'Use \"<word>\" as inspiration' as an idea to the selected question."),
		mcp.WithString("category",
			mcp.Description("Template category, e.g. 'Reversal Questions'"),
		),
		mcp.WithNumber("template",
			mcp.Description("1-based template number within the category to add as a question"),
		),
		mcp.WithString("subject",
			mcp.Description("Fills the _______ blanks of the template"),
		),
		mcp.WithBoolean("words",
			mcp.Description("Deal random words"),
		),
		mcp.WithNumber("count",
			mcp.Description("How many words to deal. Default: 10"),
		),
		mcp.WithString("word",
			mcp.Description("Add an idea inspired by this word to the selected question"),
		),
	)
}

// InspirationHandler handles the canvas_inspiration tool
func InspirationHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category := request.GetString("category", "")
		templateNum := int(request.GetFloat("template", 0))
		subject := strings.TrimSpace(request.GetString("subject", ""))
		dealWords := request.GetBool("words", false)
		count := int(request.GetFloat("count", float64(inspiration.DefaultWordCount)))
		word := request.GetString("word", "")

		switch {
		case word != "":
			a, err := ctx.Controller.AddAnswer(c, "", inspiration.WordAnswer(word))
			if err != nil {
				return errorResult(err), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Idea added [%s]: %s", a.ID, a.Text)), nil

		case dealWords:
			var words []string
			ctx.withRand(func(rng *rand.Rand) {
				words = inspiration.RandomWords(count, rng)
			})
			return mcp.NewToolResultText("Random words:\n- " + strings.Join(words, "\n- ")), nil

		case category != "" && templateNum > 0:
			tpl, err := inspiration.Template(category, templateNum-1)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			text := tpl
			if subject != "" {
				text = inspiration.Fill(tpl, subject)
			}
			q, err := ctx.Controller.AddQuestion(c, text)
			if err != nil {
				return errorResult(err), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Question added [%s]: %s", q.ID, q.Text)), nil

		case category != "":
			templates := inspiration.Templates(category)
			if templates == nil {
				return mcp.NewToolResultError(fmt.Sprintf("unknown category: %s", category)), nil
			}
			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("## %s\n", category))
			for i, tpl := range templates {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, tpl))
			}
			return mcp.NewToolResultText(sb.String()), nil

		default:
			return mcp.NewToolResultText("Question template categories:\n- " + strings.Join(inspiration.Categories(), "\n- ")), nil
		}
	}
}
