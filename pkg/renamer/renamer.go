// Package renamer selects a title provider by name and runs the rename flow
// for a single document: fetch, generate, write back.
package renamer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/paperless"
)

// ErrEmptyContent is recorded on a Result when the document has no text.
var ErrEmptyContent = errors.New("renamer: document has no content")

// Repository reads and updates documents.
type Repository interface {
	GetDocument(ctx context.Context, id string) (paperless.Document, error)
	UpdateTitle(ctx context.Context, id, title string) error
}

// Outcome is how far a rename got.
type Outcome int

const (
	Renamed Outcome = iota + 1
	Skipped
	FetchFailed
	GenerateFailed
	UpdateFailed
	DryRun
)

func (o Outcome) String() string {
	switch o {
	case Renamed:
		return "renamed"
	case Skipped:
		return "skipped"
	case FetchFailed:
		return "fetch_failed"
	case GenerateFailed:
		return "generate_failed"
	case UpdateFailed:
		return "update_failed"
	case DryRun:
		return "dry_run"
	default:
		return "unknown"
	}
}

// Result reports a single rename.
type Result struct {
	DocumentID string
	Outcome    Outcome
	OldTitle   string
	NewTitle   string
	Err        error // Cause for Skipped and the *Failed outcomes.
}

// OK reports whether the run reached its goal.
func (r Result) OK() bool {
	return r.Outcome == Renamed || r.Outcome == DryRun
}

// Renamer runs the rename flow. It holds no per-document state and may be
// reused.
type Renamer struct {
	Repo      Repository
	Generator modeladapter.TitleGenerator
	Log       *slog.Logger
	DryRun    bool // Generate the title but skip the write-back.
}

// New creates a Renamer. A nil logger discards output.
func New(repo Repository, gen modeladapter.TitleGenerator, log *slog.Logger) *Renamer {
	if log == nil {
		log = logging.NewNop()
	}

	return &Renamer{Repo: repo, Generator: gen, Log: log}
}

// Rename fetches the document, generates a title for its content and writes
// it back. Failures are logged and reported in the Result; Rename never
// returns an error and never retries.
func (r *Renamer) Rename(ctx context.Context, documentID string) Result {
	res := Result{DocumentID: documentID}
	log := r.Log.With(logging.FieldDocumentID, documentID)

	doc, err := r.Repo.GetDocument(ctx, documentID)
	if err != nil {
		log.Error("cannot fetch document", logging.FieldError, err)
		res.Outcome, res.Err = FetchFailed, err
		return res
	}

	res.OldTitle = doc.Title
	log.Info("current document title", "title", doc.Title)

	if doc.Content == "" {
		log.Warn("document has no content, skipping")
		res.Outcome, res.Err = Skipped, ErrEmptyContent
		return res
	}

	log.Debug("generating title", "content", logging.Snippet(doc.Content), "content_size", logging.Size(len(doc.Content)))

	newTitle, err := r.Generator.GenerateTitle(ctx, doc.Content)
	if err != nil {
		log.Error("failed to generate document title", logging.FieldError, err)
		res.Outcome, res.Err = GenerateFailed, err
		return res
	}

	res.NewTitle = newTitle
	log.Info("generated document title", "title", newTitle)

	if r.DryRun {
		log.Info("dry run, not updating document")
		res.Outcome = DryRun
		return res
	}

	if err := r.Repo.UpdateTitle(ctx, documentID, newTitle); err != nil {
		log.Error("failed to update document title", logging.FieldError, err)
		res.Outcome, res.Err = UpdateFailed, err
		return res
	}

	res.Outcome = Renamed
	return res
}
