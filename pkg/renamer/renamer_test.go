package renamer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/paperless"
	"github.com/germanamz/ngx-renamer/pkg/renamer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePaperless records every request made against the documents API.
type fakePaperless struct {
	mu       sync.Mutex
	status   int
	document map[string]any
	gets     int
	patches  []map[string]string
}

func (f *fakePaperless) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.gets++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.document)
	case http.MethodPatch:
		body, _ := io.ReadAll(r.Body)
		var patch map[string]string
		_ = json.Unmarshal(body, &patch)
		f.patches = append(f.patches, patch)
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// countingLLM is an OpenAI-compatible endpoint that returns a fixed title.
type countingLLM struct {
	mu    sync.Mutex
	calls int
	title string
}

func (c *countingLLM) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	content := fmt.Sprintf(`{"title":%q}`, c.title)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
}

type harness struct {
	repo *fakePaperless
	llm  *countingLLM
	r    *renamer.Renamer
	logs *bytes.Buffer
}

func newHarness(t *testing.T, doc map[string]any, status int) *harness {
	t.Helper()

	repo := &fakePaperless{document: doc, status: status}
	repoSrv := httptest.NewServer(repo)
	t.Cleanup(repoSrv.Close)

	llm := &countingLLM{title: "Amazon - AWS Monthly Invoice"}
	llmSrv := httptest.NewServer(llm)
	t.Cleanup(llmSrv.Close)

	var logs bytes.Buffer
	log, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &logs})
	require.NoError(t, err)

	s := parseSettings(t, "openai:\n  base_url: "+llmSrv.URL+"\n")
	gen, err := renamer.CreateProvider("openai", renamer.Credentials{renamer.EnvOpenAIKey: "sk"}, s,
		renamer.WithLogger(log), renamer.WithHTTPClient(llmSrv.Client()))
	require.NoError(t, err)

	client := paperless.New(repoSrv.URL+"/api", "tok", repoSrv.Client())
	client.Log = log

	return &harness{repo: repo, llm: llm, r: renamer.New(client, gen, log), logs: &logs}
}

func TestRename_EndToEnd(t *testing.T) {
	h := newHarness(t, map[string]any{"id": 123, "title": "Untitled", "content": "AWS invoice..."}, 0)

	res := h.r.Rename(context.Background(), "123")

	assert.Equal(t, renamer.Renamed, res.Outcome)
	assert.True(t, res.OK())
	require.NoError(t, res.Err)
	assert.Equal(t, "Untitled", res.OldTitle)
	assert.Equal(t, "Amazon - AWS Monthly Invoice", res.NewTitle)

	assert.Equal(t, 1, h.repo.gets)
	assert.Equal(t, 1, h.llm.calls)
	require.Len(t, h.repo.patches, 1)
	assert.Equal(t, map[string]string{"title": "Amazon - AWS Monthly Invoice"}, h.repo.patches[0])
}

func TestRename_EmptyContentSkipsLLM(t *testing.T) {
	h := newHarness(t, map[string]any{"id": 7, "title": "Scan", "content": ""}, 0)

	res := h.r.Rename(context.Background(), "7")

	assert.Equal(t, renamer.Skipped, res.Outcome)
	require.ErrorIs(t, res.Err, renamer.ErrEmptyContent)
	assert.Zero(t, h.llm.calls)
	assert.Empty(t, h.repo.patches)
	assert.Contains(t, h.logs.String(), "no content")
}

func TestRename_FetchFailure(t *testing.T) {
	h := newHarness(t, nil, http.StatusNotFound)

	var res renamer.Result
	require.NotPanics(t, func() {
		res = h.r.Rename(context.Background(), "404")
	})

	assert.Equal(t, renamer.FetchFailed, res.Outcome)
	assert.False(t, res.OK())

	var statusErr *paperless.StatusError
	require.ErrorAs(t, res.Err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Zero(t, h.llm.calls)
	assert.Empty(t, h.repo.patches)
}

func TestRename_DryRun(t *testing.T) {
	h := newHarness(t, map[string]any{"id": 123, "title": "Untitled", "content": "AWS invoice..."}, 0)
	h.r.DryRun = true

	res := h.r.Rename(context.Background(), "123")

	assert.Equal(t, renamer.DryRun, res.Outcome)
	assert.True(t, res.OK())
	assert.Equal(t, 1, h.llm.calls)
	assert.Empty(t, h.repo.patches)
	assert.Contains(t, res.Diff(), "-Untitled")
	assert.Contains(t, res.Diff(), "+Amazon - AWS Monthly Invoice")
}

// stubRepo is an in-memory Repository.
type stubRepo struct {
	doc       paperless.Document
	getErr    error
	updateErr error
	updated   []string
}

func (s *stubRepo) GetDocument(context.Context, string) (paperless.Document, error) {
	return s.doc, s.getErr
}

func (s *stubRepo) UpdateTitle(_ context.Context, _, title string) error {
	s.updated = append(s.updated, title)
	return s.updateErr
}

func TestRename_GenerateFailure(t *testing.T) {
	repo := &stubRepo{doc: paperless.Document{ID: 1, Title: "Old", Content: "text"}}
	boom := errors.New("model unavailable")

	res := renamer.New(repo, staticGenerator{err: boom}, nil).Rename(context.Background(), "1")

	assert.Equal(t, renamer.GenerateFailed, res.Outcome)
	require.ErrorIs(t, res.Err, boom)
	assert.Empty(t, repo.updated)
	assert.Empty(t, res.Diff())
}

func TestRename_UpdateFailure(t *testing.T) {
	boom := &paperless.StatusError{Op: "patch document", StatusCode: http.StatusBadRequest}
	repo := &stubRepo{doc: paperless.Document{ID: 1, Title: "Old", Content: "text"}, updateErr: boom}

	res := renamer.New(repo, staticGenerator{title: "New"}, nil).Rename(context.Background(), "1")

	assert.Equal(t, renamer.UpdateFailed, res.Outcome)
	require.ErrorIs(t, res.Err, boom)
	assert.Equal(t, []string{"New"}, repo.updated)
	assert.Equal(t, "New", res.NewTitle)
}

type recordingGenerator struct {
	texts []string
}

func (g *recordingGenerator) GenerateTitle(_ context.Context, text string) (string, error) {
	g.texts = append(g.texts, text)
	return "Blank Scan", nil
}

func TestRename_WhitespaceContentReachesProvider(t *testing.T) {
	repo := &stubRepo{doc: paperless.Document{ID: 1, Content: "  \n\t "}}
	gen := &recordingGenerator{}

	res := renamer.New(repo, gen, nil).Rename(context.Background(), "1")

	assert.Equal(t, renamer.Renamed, res.Outcome)
	assert.Equal(t, []string{"  \n\t "}, gen.texts)
	assert.Equal(t, "Blank Scan", res.NewTitle)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "renamed", renamer.Renamed.String())
	assert.Equal(t, "skipped", renamer.Skipped.String())
	assert.Equal(t, "fetch_failed", renamer.FetchFailed.String())
	assert.Equal(t, "generate_failed", renamer.GenerateFailed.String())
	assert.Equal(t, "update_failed", renamer.UpdateFailed.String())
	assert.Equal(t, "dry_run", renamer.DryRun.String())
	assert.Equal(t, "unknown", renamer.Outcome(0).String())
}

func TestResult_Diff(t *testing.T) {
	res := renamer.Result{DocumentID: "5", OldTitle: "scan_0001", NewTitle: "Acme - Contract"}

	want := "--- documents/5 (current)\n+++ documents/5 (generated)\n@@ -1 +1 @@\n-scan_0001\n+Acme - Contract\n"
	assert.Equal(t, want, res.Diff())

	assert.Empty(t, renamer.Result{OldTitle: "Same", NewTitle: "Same"}.Diff())
}
