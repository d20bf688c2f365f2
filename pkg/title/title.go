package title

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxLength is the longest title the document repository accepts, in
// characters.
const MaxLength = 127

// Name and Description label the structured output in provider requests.
const (
	Name        = "document_title"
	Description = "Generate a concise, descriptive title for a document"
)

// Schema is the JSON Schema sent to every provider: one required string
// property "title" bounded by MaxLength.
var Schema = json.RawMessage(fmt.Sprintf(
	`{"type":"object","properties":{"title":{"type":"string","maxLength":%d,"description":"The generated document title"}},"required":["title"],"additionalProperties":false}`,
	MaxLength,
))

var (
	// ErrInvalidJSON is returned when the payload is not a JSON object.
	ErrInvalidJSON = errors.New("title: response is not a JSON object")
	// ErrMissingTitle is returned when the title field is absent, null or not a string.
	ErrMissingTitle = errors.New("title: response has no title field")
	// ErrEmptyTitle is returned when the title is the empty string.
	ErrEmptyTitle = errors.New("title: response title is empty")
)

// ParseStructuredResponse extracts the title from a provider's JSON payload
// and passes it through Normalize. Fields other than "title" are ignored.
func ParseStructuredResponse(raw string) (string, error) {
	t, err := Extract(raw)
	if err != nil {
		return "", err
	}

	return Normalize(t)
}

// Extract decodes raw and returns its "title" field as-is, without the
// empty check or length limit.
func Extract(raw string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	// A literal null decodes into a nil map without error.
	if fields == nil {
		return "", ErrInvalidJSON
	}

	rawTitle, ok := fields["title"]
	if !ok || string(rawTitle) == "null" {
		return "", ErrMissingTitle
	}

	var t string
	if err := json.Unmarshal(rawTitle, &t); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingTitle, err)
	}

	return t, nil
}

// Normalize rejects the empty title and truncates titles longer than
// MaxLength characters to exactly MaxLength characters. Whitespace-only
// titles are returned unchanged.
func Normalize(t string) (string, error) {
	if t == "" {
		return "", ErrEmptyTitle
	}

	return Truncate(t), nil
}

// Truncate returns the first MaxLength runes of t.
func Truncate(t string) string {
	if utf8.RuneCountInString(t) <= MaxLength {
		return t
	}

	return string([]rune(t)[:MaxLength])
}

// Truncated reports whether Normalize would shorten t.
func Truncated(t string) bool {
	return utf8.RuneCountInString(t) > MaxLength
}
