// Package claude implements the Advisor hook with a Claude model.
// The advisor summarizes retrieved similar cases into a short note
// attached to the decision context for human review. It is strictly
// advisory: rule outcomes and confidences are untouched, and any API
// failure degrades to an empty note.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/auroraml/aurora/core"
	"github.com/auroraml/aurora/memory"
)

const defaultModel = "claude-sonnet-4-20250514"

// Advisor asks Claude to comment on the current situation in light of
// similar past cases.
type Advisor struct {
	client *anthropic.Client
	model  string
}

// New builds an Advisor. An empty model selects the default.
func New(client *anthropic.Client, model string) *Advisor {
	if model == "" {
		model = defaultModel
	}
	return &Advisor{client: client, model: model}
}

// Advise returns a short commentary, or "" when there is nothing to
// say. Errors are returned for the caller to log; the pipeline treats
// them as a missing note.
func (a *Advisor) Advise(ctx context.Context, sysCtx core.SystemContext, cases []memory.SearchResult) (string, error) {
	if len(cases) == 0 {
		return "", nil
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(sysCtx, cases))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude advise: %w", err)
	}

	var note strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			note.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(note.String()), nil
}

// buildPrompt renders the current signals and the retrieved cases.
func buildPrompt(sysCtx core.SystemContext, cases []memory.SearchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current state: accuracy %.2f, latency %.0fms, drift detected=%t (score %.2f).\n\n",
		sysCtx.ModelMetrics.Accuracy, sysCtx.ModelMetrics.LatencyMS,
		sysCtx.DataDrift.Detected, sysCtx.DataDrift.Score)

	b.WriteString("Similar past cases:\n")
	for i, c := range cases {
		fmt.Fprintf(&b, "%d. (score %.2f) %s\n", i+1, c.Score, c.Text)
	}
	return b.String()
}

const systemPrompt = `You are reviewing an ML operations incident. Given the current system state and similar past cases, write a two-sentence advisory note for the on-call engineer. Do not recommend a specific action; point out which past cases look most relevant and why.`
