package renamer

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff from the current to the generated title.
// Returns an empty string when no title was generated or nothing changed.
func (r Result) Diff() string {
	if r.NewTitle == "" || r.NewTitle == r.OldTitle {
		return ""
	}

	label := "documents/" + r.DocumentID
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.OldTitle),
		B:        difflib.SplitLines(r.NewTitle),
		FromFile: label + " (current)",
		ToFile:   label + " (generated)",
		Context:  1,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("(diff error: %v)", err)
	}

	return result
}
