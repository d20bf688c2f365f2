package openai_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/providers/openai"
	"github.com/germanamz/ngx-renamer/pkg/settings"
	"github.com/germanamz/ngx-renamer/pkg/title"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *settings.Settings {
	return &settings.Settings{
		Prompt: &settings.Prompt{
			Main:        "Generate a title.\n",
			NoDate:      "No dates.\n",
			PreContent:  "---\n",
			PostContent: "\n---",
		},
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *openai.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := openai.New(srv.URL, "test-key", "gpt-4o-mini")
	a.Client = srv.Client()
	a.Settings = testSettings()

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func reply(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 50, "completion_tokens": 9},
	}
}

func TestGenerateTitle(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)
		assert.Equal(t, "gpt-4o-mini", req["model"])

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 1)

		msg, _ := msgs[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "Generate a title.\nNo dates.\n---\nAWS invoice\n---", msg["content"])

		format, _ := req["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])

		schema, _ := format["json_schema"].(map[string]any)
		assert.Equal(t, title.Name, schema["name"])
		assert.Equal(t, true, schema["strict"])

		inner, _ := schema["schema"].(map[string]any)
		assert.Equal(t, []any{"title"}, inner["required"])
		assert.Equal(t, false, inner["additionalProperties"])

		writeJSON(t, w, reply(`{"title":"Amazon - AWS Monthly Invoice"}`))
	})

	got, err := adapter.GenerateTitle(context.Background(), "AWS invoice")
	require.NoError(t, err)
	assert.Equal(t, "Amazon - AWS Monthly Invoice", got)
}

func TestGenerateTitle_Truncates(t *testing.T) {
	long := strings.Repeat("A", 200)

	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, reply(`{"title":"`+long+`"}`))
	})

	got, err := adapter.GenerateTitle(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, long[:title.MaxLength], got)
}

func TestGenerateTitle_Organization(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "org-42", r.Header.Get("OpenAI-Organization"))
		writeJSON(t, w, reply(`{"title":"T"}`))
	})
	adapter.SetOrganization("org-42")

	_, err := adapter.GenerateTitle(context.Background(), "text")
	require.NoError(t, err)
}

func TestGenerateTitle_NoPromptSkipsRequest(t *testing.T) {
	var calls atomic.Int32

	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(t, w, reply(`{"title":"T"}`))
	})
	adapter.Settings = &settings.Settings{}

	_, err := adapter.GenerateTitle(context.Background(), "text")
	require.ErrorIs(t, err, title.ErrNoPrompt)
	assert.Zero(t, calls.Load())
}

func TestGenerateTitle_InvalidContent(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, reply("Amazon invoice"))
	})

	_, err := adapter.GenerateTitle(context.Background(), "text")
	require.ErrorIs(t, err, title.ErrInvalidJSON)
}

func TestGenerateTitle_EmptyChoices(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"choices": []map[string]any{}})
	})

	_, err := adapter.GenerateTitle(context.Background(), "text")
	require.ErrorIs(t, err, openai.ErrNoContent)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestGenerateTitle_Refusal(t *testing.T) {
	var buf bytes.Buffer

	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": nil, "refusal": "I can't help with that."}},
			},
		})
	})

	log, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	require.NoError(t, err)
	adapter.Log = log

	_, err = adapter.GenerateTitle(context.Background(), "text")
	require.ErrorIs(t, err, openai.ErrNoContent)
	assert.Contains(t, buf.String(), "model refused the request")
}

func TestGenerateTitle_HTTPError(t *testing.T) {
	var buf bytes.Buffer

	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"server exploded"}}`))
	})

	log, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	require.NoError(t, err)
	adapter.Log = log

	_, err = adapter.GenerateTitle(context.Background(), "text")

	var statusErr *modeladapter.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, buf.String(), "server exploded")
}

func TestGenerateTitle_RateLimited(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	})

	_, err := adapter.GenerateTitle(context.Background(), "text")
	require.Error(t, err)

	var rle *modeladapter.RateLimitError
	assert.ErrorAs(t, err, &rle)
}
