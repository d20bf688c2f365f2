package logging

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Attribute keys shared across packages.
const (
	FieldRunID      = "run_id"
	FieldDocumentID = "document_id"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldStatus     = "status"
	FieldError      = "error"
)

// SnippetWidth is the display width Snippet truncates to.
const SnippetWidth = 160

var whitespace = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// Snippet flattens s onto one line and truncates it to SnippetWidth terminal
// columns, so wide scripts do not blow up log lines.
func Snippet(s string) string {
	clean := strings.Join(strings.Fields(whitespace.Replace(s)), " ")
	if clean == "" {
		return "<empty>"
	}

	return runewidth.Truncate(clean, SnippetWidth, "...")
}

// Size renders a byte count such as "1.2 kB".
func Size(n int) string {
	if n < 0 {
		n = 0
	}

	return humanize.Bytes(uint64(n))
}
