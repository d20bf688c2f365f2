package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/settings"
	"github.com/germanamz/ngx-renamer/pkg/title"
)

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// RateLimitError is returned when the API responds with HTTP 429 (Too Many Requests).
// It carries an optional RetryAfter duration parsed from the Retry-After header.
// The request is not retried; the duration is reported for diagnostics.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("rate limited: %s", e.Body)
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		d := time.Until(t)
		if d > 0 {
			return d
		}
		return 0
	}
	return 0
}

// TitleGenerator turns document text into a title. Implementations make a
// single attempt; any error means no title was produced.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, text string) (string, error)
}

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds shared state for title providers. Embed it in concrete
// provider structs to get HTTP helpers, auth, custom headers, prompt building
// and response normalization with consistent logging.
type ModelAdapter struct {
	Name      string             // Model identifier (e.g. "gpt-4o-mini").
	MaxTokens int                // Maximum tokens in the response; 0 leaves it to the API.
	Auth      Auth               // Authentication settings.
	BaseURL   string             // API base URL (no trailing slash).
	Client    *http.Client       // HTTP client; falls back to one bounded by the settings timeout.
	Headers   map[string]string  // Extra headers applied to every request.
	Settings  *settings.Settings // Prompt configuration; nil when loading failed.
	Log       *slog.Logger       // Falls back to a discarding logger.
	Now       func() time.Time   // Clock for the prompt date; falls back to time.Now.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a ModelAdapter with the given settings.
// A nil client falls back to a client bounded by the settings timeout.
func New(baseURL string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{
		Auth:    auth,
		BaseURL: baseURL,
		Client:  client,
	}
}

// Logger returns the adapter's logger, never nil.
func (a *ModelAdapter) Logger() *slog.Logger {
	if a.Log == nil {
		return logging.NewNop()
	}

	return a.Log
}

// httpClient returns the configured client or a cached default client bounded
// by the settings timeout.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: a.Settings.HTTPTimeout()}
	})

	return a.defaultClient
}

func (a *ModelAdapter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}

	return time.Now()
}

// Prompt builds the prompt for text from the adapter's settings. Failures are
// logged here so providers can return without contacting the API.
func (a *ModelAdapter) Prompt(text string) (string, error) {
	prompt, err := title.BuildPrompt(a.Settings, text, a.now())
	if err != nil {
		a.Logger().Error("cannot build prompt", logging.FieldError, err)
		return "", err
	}

	return prompt, nil
}

// ParseTitle normalizes a raw JSON payload returned by the model.
func (a *ModelAdapter) ParseTitle(raw string) (string, error) {
	t, err := title.Extract(raw)
	if err != nil {
		a.Logger().Error("model returned an unusable structured response",
			logging.FieldModel, a.Name,
			logging.FieldError, err,
			"content", logging.Snippet(raw),
		)
		return "", err
	}

	return a.NormalizeTitle(t)
}

// NormalizeTitle applies the empty check and length limit to a title that the
// API returned already decoded.
func (a *ModelAdapter) NormalizeTitle(t string) (string, error) {
	out, err := title.Normalize(t)
	if err != nil {
		a.Logger().Warn("model returned an empty title", logging.FieldModel, a.Name)
		return "", err
	}

	if title.Truncated(t) {
		a.logTruncation(t)
	}

	return out, nil
}

func (a *ModelAdapter) logTruncation(s string) {
	a.Logger().Warn("title exceeds limit, truncating",
		"limit", title.MaxLength,
		"content", logging.Snippet(s),
	)
}

// LogUsage records the token usage reported for a call at debug level.
func (a *ModelAdapter) LogUsage(u Usage) {
	a.Logger().Debug("model usage", logging.FieldModel, a.Name, "usage", u)
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := a.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Apply auth.
	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	// Apply custom headers.
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a POST to the given path,
// checks for a 2xx status, and unmarshals the response body into dest.
// If dest is nil the response body is discarded after the status check.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		respBody, _ := io.ReadAll(resp.Body)
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       string(respBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// LogRequestError logs a failed API call with whatever diagnostics the error
// carries.
func (a *ModelAdapter) LogRequestError(provider string, err error) {
	attrs := []any{
		logging.FieldProvider, provider,
		logging.FieldModel, a.Name,
		logging.FieldError, err,
	}

	var statusErr *StatusError
	var rateErr *RateLimitError
	switch {
	case errors.As(err, &rateErr):
		attrs = append(attrs, logging.FieldStatus, http.StatusTooManyRequests, "retry_after", rateErr.RetryAfter)
		a.Logger().Error("provider rate limited the request", attrs...)
		return
	case errors.As(err, &statusErr):
		attrs = append(attrs, logging.FieldStatus, statusErr.StatusCode, "body", logging.Snippet(statusErr.Body))
	}

	a.Logger().Error("provider request failed", attrs...)
}
