// Package paperless is a minimal client for the Paperless-NGX documents API:
// read a document and update its title.
package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/germanamz/ngx-renamer/pkg/logging"
)

// DefaultTimeout bounds each request when no client is supplied.
const DefaultTimeout = 30 * time.Second

// ErrInvalidID is returned for an empty document id.
var ErrInvalidID = errors.New("paperless: document id is required")

// StatusError is returned when the API answers with anything but 200 OK.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("paperless: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Document is the subset of a Paperless document used for renaming.
type Document struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Client talks to a Paperless-NGX instance.
type Client struct {
	BaseURL string       // API root, e.g. http://webserver:8000/api (no trailing slash).
	Token   string       // API token sent as "Authorization: Token <token>".
	HTTP    *http.Client // Falls back to a client bounded by DefaultTimeout.
	Log     *slog.Logger // Falls back to a discarding logger.
}

// New creates a Client. Trailing slashes on baseURL are removed.
// A nil client falls back to one bounded by DefaultTimeout.
func New(baseURL, token string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    client,
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Log == nil {
		return logging.NewNop()
	}

	return c.Log
}

func (c *Client) documentURL(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}

	return c.BaseURL + "/documents/" + url.PathEscape(id) + "/", nil
}

// GetDocument fetches the document with the given id.
func (c *Client) GetDocument(ctx context.Context, id string) (Document, error) {
	var doc Document

	u, err := c.documentURL(id)
	if err != nil {
		return doc, err
	}

	if err := c.do(ctx, http.MethodGet, u, nil, &doc); err != nil {
		c.logger().Error("failed to get document", logging.FieldDocumentID, id, logging.FieldError, err)
		return doc, err
	}

	c.logger().Info("retrieved document",
		logging.FieldDocumentID, id,
		"title", doc.Title,
		"content_size", logging.Size(len(doc.Content)),
	)

	return doc, nil
}

// UpdateTitle replaces the title of the document with the given id.
func (c *Client) UpdateTitle(ctx context.Context, id, title string) error {
	u, err := c.documentURL(id)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return fmt.Errorf("paperless: marshal payload: %w", err)
	}

	if err := c.do(ctx, http.MethodPatch, u, bytes.NewReader(body), nil); err != nil {
		c.logger().Error("failed to update document", logging.FieldDocumentID, id, logging.FieldError, err)
		return err
	}

	c.logger().Info("updated document title", logging.FieldDocumentID, id, "title", title)

	return nil
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, dest any) error {
	op := strings.ToLower(method) + " document"

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("paperless: build request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
	if err != nil {
		return fmt.Errorf("paperless: %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("paperless: decode response: %w", err)
	}

	return nil
}
