// Package ollama provides a TitleGenerator for a local or hosted Ollama
// server using the /api/chat endpoint with a JSON schema format.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/title"
)

const (
	// DefaultBaseURL is where a local Ollama listens.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is used when settings name no model.
	DefaultModel = "gpt-oss:latest"

	chatPath = "/api/chat"
)

// ErrNoMessage is returned when the reply has no message content.
var ErrNoMessage = errors.New("ollama: response has no message")

var _ modeladapter.TitleGenerator = (*Adapter)(nil)

// Adapter implements modeladapter.TitleGenerator for the Ollama chat API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter for the Ollama server at baseURL. The API key is
// optional: an empty or whitespace-only key sends no Authorization header.
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = strings.TrimRight(baseURL, "/")
	if strings.TrimSpace(apiKey) != "" {
		a.Auth = modeladapter.Auth{Key: apiKey}
	}
	a.Name = model

	return a
}

// GenerateTitle sends a non-streaming chat request whose format is
// title.Schema.
func (a *Adapter) GenerateTitle(ctx context.Context, text string) (string, error) {
	prompt, err := a.Prompt(text)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}

	req := apiRequest{
		Model:    a.Name,
		Messages: []apiMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   title.Schema,
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, chatPath, req, &resp); err != nil {
		a.logFailure(err)
		return "", fmt.Errorf("ollama: %w", err)
	}

	a.LogUsage(modeladapter.Usage{
		InputTokens:  resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
	})

	if resp.Message == nil {
		a.Logger().Error("unexpected response structure from ollama", "done_reason", resp.DoneReason)
		return "", ErrNoMessage
	}

	t, err := a.ParseTitle(resp.Message.Content)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}

	return t, nil
}

// logFailure adds an operator hint to the logged request error.
func (a *Adapter) logFailure(err error) {
	a.LogRequestError("ollama", err)

	var statusErr *modeladapter.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound || strings.Contains(strings.ToLower(statusErr.Body), "not found") {
			a.Logger().Error("model not found in ollama, pull it first",
				logging.FieldModel, a.Name,
				"hint", "ollama pull "+a.Name,
			)
		}
		return
	}

	var rateErr *modeladapter.RateLimitError
	if errors.As(err, &rateErr) {
		return
	}

	a.Logger().Error("make sure ollama is running",
		"base_url", a.BaseURL,
		"hint", "curl "+a.BaseURL+"/api/version",
	)
}

// --- request types ---

type apiRequest struct {
	Model    string          `json:"model"`
	Messages []apiMessage    `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Model           string      `json:"model"`
	Message         *apiMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}
