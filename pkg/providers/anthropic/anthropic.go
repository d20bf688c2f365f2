// Package anthropic provides a TitleGenerator for the Anthropic Messages API.
// Structured output is obtained by forcing a single tool call whose input
// schema is the title schema.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/title"
)

const (
	// DefaultBaseURL is the public Anthropic API root.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is used when settings name no model.
	DefaultModel = "claude-3-5-sonnet-20241022"
	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
	// DefaultMaxTokens bounds the reply.
	DefaultMaxTokens = 1024

	messagesPath = "/v1/messages"
)

// ErrNoToolUse is returned when the reply has no document_title tool call.
var ErrNoToolUse = errors.New("anthropic: response has no document_title tool call")

var _ modeladapter.TitleGenerator = (*Adapter)(nil)

// Adapter implements modeladapter.TitleGenerator for the Anthropic Messages API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Anthropic API.
// The baseURL should be "https://api.anthropic.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Name = model
	a.MaxTokens = DefaultMaxTokens
	a.Headers = map[string]string{
		"anthropic-version": APIVersion,
	}

	return a
}

// GenerateTitle forces the document_title tool and returns its title input.
func (a *Adapter) GenerateTitle(ctx context.Context, text string) (string, error) {
	prompt, err := a.Prompt(text)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	req := a.buildRequest(prompt)

	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, req, &resp); err != nil {
		a.LogRequestError("claude", err)
		return "", fmt.Errorf("anthropic: %w", err)
	}

	a.LogUsage(modeladapter.Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})

	raw, err := resp.toolInput()
	if err != nil {
		a.Logger().Error("no tool call in response", "stop_reason", resp.StopReason)
		return "", err
	}

	// Tool input is a JSON object, not a string holding one.
	var input struct {
		Title *string `json:"title"`
	}
	if err := json.Unmarshal(raw, &input); err != nil || input.Title == nil {
		a.Logger().Error("tool call has no title", "input", string(raw))
		return "", fmt.Errorf("anthropic: %w", title.ErrMissingTitle)
	}

	t, err := a.NormalizeTitle(*input.Title)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	return t, nil
}

// --- request types ---

type apiRequest struct {
	Model      string        `json:"model"`
	MaxTokens  int           `json:"max_tokens"`
	Messages   []apiMessage  `json:"messages"`
	Tools      []apiToolDef  `json:"tools"`
	ToolChoice apiToolChoice `json:"tool_choice"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type apiToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(prompt string) apiRequest {
	return apiRequest{
		Model:     a.Name,
		MaxTokens: a.MaxTokens,
		Messages:  []apiMessage{{Role: "user", Content: prompt}},
		Tools: []apiToolDef{{
			Name:        title.Name,
			Description: title.Description,
			InputSchema: title.Schema,
		}},
		ToolChoice: apiToolChoice{Type: "tool", Name: title.Name},
	}
}

func (r apiResponse) toolInput() (json.RawMessage, error) {
	for _, c := range r.Content {
		if c.Type == "tool_use" && c.Name == title.Name {
			return c.Input, nil
		}
	}

	return nil, ErrNoToolUse
}
