package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AutoFallsBackToJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer

	log, err := logging.New(logging.Options{Writer: &buf})
	require.NoError(t, err)

	log.Info("hello", logging.FieldDocumentID, "42")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "42", rec[logging.FieldDocumentID])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	log, err := logging.New(logging.Options{Format: "text", Writer: &buf})
	require.NoError(t, err)

	log.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	log, err := logging.New(logging.Options{Level: "warn", Format: "json", Writer: &buf})
	require.NoError(t, err)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel(""))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "<empty>", logging.Snippet(" \n\t"))
	assert.Equal(t, "a b c", logging.Snippet("a\nb\t\tc"))

	long := strings.Repeat("界", 200)
	got := logging.Snippet(long)
	assert.LessOrEqual(t, runewidth.StringWidth(got), logging.SnippetWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSize(t *testing.T) {
	assert.Equal(t, "0 B", logging.Size(-1))
	assert.Equal(t, "1.5 kB", logging.Size(1500))
}
