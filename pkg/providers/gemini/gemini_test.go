package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/providers/gemini"
	"github.com/germanamz/ngx-renamer/pkg/settings"
	"github.com/germanamz/ngx-renamer/pkg/title"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *gemini.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := gemini.New(srv.URL, "test-key", gemini.DefaultModel)
	a.Client = srv.Client()
	a.Settings = &settings.Settings{Prompt: &settings.Prompt{Main: "Title: "}}

	return a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func candidates(parts ...string) map[string]any {
	ps := make([]map[string]any, len(parts))
	for i, p := range parts {
		ps[i] = map[string]any{"text": p}
	}

	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": ps}, "finishReason": "STOP"},
		},
		"usageMetadata": map[string]any{"promptTokenCount": 12, "candidatesTokenCount": 6, "totalTokenCount": 18},
	}
}

func TestGenerateTitle(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		cfg, _ := req["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", cfg["responseMimeType"])
		assert.NotNil(t, cfg["responseJsonSchema"])

		contents, _ := req["contents"].([]any)
		require.Len(t, contents, 1)

		writeJSON(t, w, candidates(`{"title":`, `"Gemini Report"}`))
	})

	got, err := a.GenerateTitle(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "Gemini Report", got)
}

func TestGenerateTitle_EmptyCandidates(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"candidates": []any{}})
	})

	_, err := a.GenerateTitle(context.Background(), "body")
	require.ErrorIs(t, err, gemini.ErrNoCandidates)
}

func TestGenerateTitle_NoText(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, candidates())
	})

	_, err := a.GenerateTitle(context.Background(), "body")
	require.ErrorIs(t, err, gemini.ErrNoCandidates)
}

func TestGenerateTitle_EmptyTitle(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, candidates(`{"title":""}`))
	})

	_, err := a.GenerateTitle(context.Background(), "body")
	require.ErrorIs(t, err, title.ErrEmptyTitle)
}

func TestGenerateTitle_HTTPError(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := a.GenerateTitle(context.Background(), "body")

	var statusErr *modeladapter.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}
