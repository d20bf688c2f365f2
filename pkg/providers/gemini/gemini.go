// Package gemini provides a TitleGenerator for the Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/title"
)

const (
	// DefaultBaseURL is the public Gemini API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is used when settings name no model.
	DefaultModel = "gemini-2.0-flash"
)

// ErrNoCandidates is returned when the reply carries no candidate text.
var ErrNoCandidates = errors.New("gemini: empty candidates in response")

var _ modeladapter.TitleGenerator = (*Adapter)(nil)

// Adapter implements modeladapter.TitleGenerator for the Google Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Gemini API.
// The baseURL should be "https://generativelanguage.googleapis.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-goog-api-key",
	}
	a.Name = model

	return a
}

// GenerateTitle requests a JSON reply constrained by title.Schema.
func (a *Adapter) GenerateTitle(ctx context.Context, text string) (string, error) {
	prompt, err := a.Prompt(text)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	req := a.buildRequest(prompt)
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", a.Name)

	var resp apiResponse
	if err := a.PostJSON(ctx, path, req, &resp); err != nil {
		a.LogRequestError("gemini", err)
		return "", fmt.Errorf("gemini: %w", err)
	}

	a.LogUsage(modeladapter.Usage{
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	})

	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	raw := resp.Candidates[0].text()
	if raw == "" {
		a.Logger().Error("candidate has no text", "finish_reason", resp.Candidates[0].FinishReason)
		return "", ErrNoCandidates
	}

	t, err := a.ParseTitle(raw)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	return t, nil
}

// --- request types ---

type apiRequest struct {
	Contents         []apiContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens    int             `json:"maxOutputTokens,omitempty"`
	ResponseMimeType   string          `json:"responseMimeType"`
	ResponseJSONSchema json.RawMessage `json:"responseJsonSchema"`
}

// --- response types ---

type apiResponse struct {
	Candidates    []apiCandidate `json:"candidates"`
	UsageMetadata apiUsageMeta   `json:"usageMetadata"`
}

type apiCandidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

type apiUsageMeta struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(prompt string) apiRequest {
	return apiRequest{
		Contents: []apiContent{{
			Role:  "user",
			Parts: []apiPart{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			MaxOutputTokens:    a.MaxTokens,
			ResponseMimeType:   "application/json",
			ResponseJSONSchema: title.Schema,
		},
	}
}

// text joins every text part; the model may split JSON across parts.
func (c apiCandidate) text() string {
	var b strings.Builder
	for _, p := range c.Content.Parts {
		b.WriteString(p.Text)
	}

	return b.String()
}
