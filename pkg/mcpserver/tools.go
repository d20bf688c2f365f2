package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/ngx-renamer/pkg/renamer"
)

const (
	renameSchema  = `{"type":"object","properties":{"document_id":{"type":["integer","string"],"description":"Paperless document id"},"dry_run":{"type":"boolean","description":"Generate the title without saving it"}},"required":["document_id"]}`
	suggestSchema = `{"type":"object","properties":{"text":{"type":"string","description":"Document text to title"}},"required":["text"]}`
)

var errBadInput = errors.New("invalid input")

// renameOutput is the JSON document returned by rename_document.
type renameOutput struct {
	DocumentID string `json:"document_id"`
	Outcome    string `json:"outcome"`
	OldTitle   string `json:"old_title,omitempty"`
	NewTitle   string `json:"new_title,omitempty"`
}

// Tools returns the rename_document and suggest_title tools backed by r.
func Tools(r *renamer.Renamer) []Tool {
	return []Tool{
		{
			Name:        "rename_document",
			Description: "Generate a title for a Paperless document from its content and save it.",
			InputSchema: json.RawMessage(renameSchema),
			Handler:     renameHandler(r),
		},
		{
			Name:        "suggest_title",
			Description: "Generate a document title for the given text without touching Paperless.",
			InputSchema: json.RawMessage(suggestSchema),
			Handler:     suggestHandler(r),
		},
	}
}

func renameHandler(r *renamer.Renamer) Handler {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		var in struct {
			DocumentID json.Number `json:"document_id"`
			DryRun     bool        `json:"dry_run"`
		}
		if err := json.Unmarshal(input, &in); err != nil {
			return "", fmt.Errorf("rename_document: %w: %w", errBadInput, err)
		}

		id := strings.TrimSpace(in.DocumentID.String())
		if id == "" {
			return "", fmt.Errorf("rename_document: %w: document_id is required", errBadInput)
		}

		run := *r
		run.DryRun = r.DryRun || in.DryRun

		res := run.Rename(ctx, id)
		if !res.OK() {
			return "", fmt.Errorf("rename_document: %s: %w", res.Outcome, res.Err)
		}

		out, err := json.Marshal(renameOutput{
			DocumentID: res.DocumentID,
			Outcome:    res.Outcome.String(),
			OldTitle:   res.OldTitle,
			NewTitle:   res.NewTitle,
		})
		if err != nil {
			return "", err
		}

		return string(out), nil
	}
}

func suggestHandler(r *renamer.Renamer) Handler {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		var in struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(input, &in); err != nil {
			return "", fmt.Errorf("suggest_title: %w: %w", errBadInput, err)
		}

		if strings.TrimSpace(in.Text) == "" {
			return "", fmt.Errorf("suggest_title: %w: text is required", errBadInput)
		}

		t, err := r.Generator.GenerateTitle(ctx, in.Text)
		if err != nil {
			return "", fmt.Errorf("suggest_title: %w", err)
		}

		return t, nil
	}
}
