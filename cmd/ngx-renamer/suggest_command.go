package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/germanamz/ngx-renamer/pkg/logging"
)

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print a title for local text without contacting Paperless",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readText(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no text to title in %s", file)
			}

			g, log, err := ctx.generator()
			if err != nil {
				return err
			}

			log.Debug("suggesting title", "source", file, "content_size", logging.Size(len(text)))

			t, err := g.GenerateTitle(cmd.Context(), text)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", `Text file to title, "-" for stdin`)

	return cmd
}

func readText(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is a CLI argument
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return string(data), nil
}
