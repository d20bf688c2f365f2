// Package grok implements modeladapter.TitleGenerator for xAI's Grok models
// using the OpenAI-compatible chat completions API.
package grok

import (
	"context"
	"fmt"
	"net/http"

	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/providers/openai"
)

// DefaultBaseURL is the base URL for the xAI API.
const DefaultBaseURL = "https://api.x.ai/v1"

// DefaultModel is used when settings name no model.
const DefaultModel = "grok-2"

var _ modeladapter.TitleGenerator = (*GrokAdapter)(nil)

// GrokAdapter sends structured-output chat completions to xAI's Grok API.
type GrokAdapter struct {
	modeladapter.ModelAdapter
}

// New creates a GrokAdapter with the given API key and HTTP client.
// A nil client falls back to one bounded by the settings timeout.
func New(apiKey string, client *http.Client) *GrokAdapter {
	a := &GrokAdapter{
		ModelAdapter: modeladapter.New(DefaultBaseURL, modeladapter.Auth{Key: apiKey}, client),
	}
	a.Name = DefaultModel

	return a
}

// GenerateTitle sends the prompt to the Grok chat completions endpoint and
// returns the normalized title.
func (g *GrokAdapter) GenerateTitle(ctx context.Context, text string) (string, error) {
	prompt, err := g.Prompt(text)
	if err != nil {
		return "", fmt.Errorf("grok: %w", err)
	}

	var resp openai.Response
	if err := g.PostJSON(ctx, "/chat/completions", openai.NewRequest(g.Name, g.MaxTokens, prompt), &resp); err != nil {
		g.LogRequestError("grok", err)
		return "", fmt.Errorf("grok: %w", err)
	}

	g.LogUsage(resp.Usage.Value())

	raw, err := resp.Content(g.Logger())
	if err != nil {
		return "", fmt.Errorf("grok: %w", err)
	}

	t, err := g.ParseTitle(raw)
	if err != nil {
		return "", fmt.Errorf("grok: %w", err)
	}

	return t, nil
}
