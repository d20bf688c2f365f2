package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/renamer"
)

func addRenameFlags(cmd *cobra.Command, ctx *commandContext) {
	flags := cmd.Flags()
	flags.StringVar(&ctx.paperlessURL, "paperless-url", "", "Paperless API root, e.g. http://webserver:8000/api (default $PAPERLESS_NGX_URL)")
	flags.StringVar(&ctx.paperlessToken, "paperless-api-key", "", "Paperless API token (default $PAPERLESS_NGX_API_KEY)")
	flags.BoolVar(&ctx.dryRun, "dry-run", false, "Generate the title and show the change without saving it")
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [document-id]",
		Short: "Generate and save a title for one document",
		Long: "Fetch the document, generate a title from its content and save it.\n" +
			"The document id defaults to $DOCUMENT_ID. Failures while processing the\n" +
			"document are logged and do not change the exit status.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, ctx, args)
		},
	}
	addRenameFlags(cmd, ctx)

	return cmd
}

func runRename(cmd *cobra.Command, ctx *commandContext, args []string) error {
	id := os.Getenv(envDocumentID)
	if len(args) > 0 {
		id = args[0]
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: document id is required (argument or %s)", renamer.ErrConfiguration, envDocumentID)
	}

	r, log, err := ctx.pipeline()
	if err != nil {
		return err
	}

	log.Info("starting paperless ai titles", logging.FieldDocumentID, id, "run_dir", ctx.resolvedRunDir(), "dry_run", r.DryRun)

	res := r.Rename(cmd.Context(), id)
	printResult(cmd.OutOrStdout(), res)

	return nil
}
