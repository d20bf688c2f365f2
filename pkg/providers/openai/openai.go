// Package openai provides a TitleGenerator for the OpenAI Chat Completions API
// using structured outputs.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/title"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com"
	// DefaultModel is used when settings name no model.
	DefaultModel = "gpt-4o-mini"

	completionsPath = "/v1/chat/completions"
)

// ErrNoContent is returned when the API produced no message content.
var ErrNoContent = errors.New("openai: response has no content")

var _ modeladapter.TitleGenerator = (*Adapter)(nil)

// Adapter implements modeladapter.TitleGenerator for the OpenAI Chat
// Completions API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the OpenAI API.
// The baseURL should be "https://api.openai.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model

	return a
}

// SetOrganization sends the OpenAI-Organization header on every request. An
// empty id is ignored.
func (a *Adapter) SetOrganization(id string) {
	if id == "" {
		return
	}

	if a.Headers == nil {
		a.Headers = map[string]string{}
	}
	a.Headers["OpenAI-Organization"] = id
}

// GenerateTitle asks the model for a title constrained by title.Schema.
func (a *Adapter) GenerateTitle(ctx context.Context, text string) (string, error) {
	prompt, err := a.Prompt(text)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	req := NewRequest(a.Name, a.MaxTokens, prompt)

	var resp Response
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		a.LogRequestError("openai", err)
		return "", fmt.Errorf("openai: %w", err)
	}

	a.LogUsage(resp.Usage.Value())

	raw, err := resp.Content(a.Logger())
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	t, err := a.ParseTitle(raw)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	a.Logger().Debug("generated title", logging.FieldModel, a.Name, "title", t)

	return t, nil
}

// --- wire types ---
//
// The request and response types are exported so OpenAI-compatible APIs
// (xAI Grok) can reuse them.

// Request is a chat completions request with a json_schema response format.
type Request struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat selects structured output.
type ResponseFormat struct {
	Type       string     `json:"type"`
	JSONSchema JSONSchema `json:"json_schema"`
}

// JSONSchema names the schema the reply must follow.
type JSONSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// NewRequest builds a single-user-message request for prompt.
func NewRequest(model string, maxTokens int, prompt string) Request {
	return Request{
		Model:     model,
		Messages:  []Message{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
		ResponseFormat: ResponseFormat{
			Type: "json_schema",
			JSONSchema: JSONSchema{
				Name:   title.Name,
				Strict: true,
				Schema: title.Schema,
			},
		},
	}
}

// Response is the subset of a chat completions response that is read.
type Response struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion candidate.
type Choice struct {
	Message      ReplyMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// ReplyMessage is the assistant message of a choice.
type ReplyMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
	Refusal *string `json:"refusal,omitempty"`
}

// Usage is the token accounting block.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Value converts u to the shared usage type.
func (u Usage) Value() modeladapter.Usage {
	return modeladapter.Usage{InputTokens: u.PromptTokens, OutputTokens: u.CompletionTokens}
}

// Content returns the first choice's message content. A refusal is logged and
// reported as ErrNoContent.
func (r Response) Content(log *slog.Logger) (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrNoContent)
	}

	msg := r.Choices[0].Message
	if msg.Refusal != nil && *msg.Refusal != "" {
		log.Warn("model refused the request", "refusal", logging.Snippet(*msg.Refusal))
		return "", fmt.Errorf("%w: refused", ErrNoContent)
	}

	if msg.Content == nil {
		return "", ErrNoContent
	}

	return *msg.Content, nil
}
