package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/ngx-renamer/pkg/renamer"
)

// printResult writes a one-line summary of res, followed by the title diff
// for dry runs.
func printResult(w io.Writer, res renamer.Result) {
	label := dimStyle.Render("document " + res.DocumentID)

	switch res.Outcome {
	case renamer.Renamed:
		fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("renamed"), label, titleStyle.Render(res.NewTitle))
	case renamer.DryRun:
		fmt.Fprintf(w, "%s %s %s\n", warnStyle.Render("dry run"), label, titleStyle.Render(res.NewTitle))
		if diff := res.Diff(); diff != "" {
			fmt.Fprint(w, colorDiff(diff))
		}
	case renamer.Skipped:
		fmt.Fprintf(w, "%s %s %v\n", warnStyle.Render("skipped"), label, res.Err)
	default:
		fmt.Fprintf(w, "%s %s %v\n", errorStyle.Render(strings.ReplaceAll(res.Outcome.String(), "_", " ")), label, res.Err)
	}
}

func colorDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(dimStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "@@"):
			b.WriteString(diffHunkStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "+"):
			b.WriteString(diffAddStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "-"):
			b.WriteString(diffDelStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		default:
			b.WriteString(line)
		}
	}

	return b.String()
}
