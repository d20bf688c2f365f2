package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:   "ngx-renamer [document-id]",
		Short: "Generate Paperless-NGX document titles with an LLM",
		Long: "ngx-renamer fetches a Paperless-NGX document, asks the configured LLM provider\n" +
			"for a title and writes it back. Without a subcommand it renames DOCUMENT_ID,\n" +
			"which makes it usable as PAPERLESS_POST_CONSUME_SCRIPT.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx.stderr = cmd.ErrOrStderr()
			return ctx.loadEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, ctx, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.runDir, "run-dir", "", "Directory holding settings.yaml and .env (default $RUN_DIR)")
	flags.StringVar(&ctx.settingsPath, "settings", "", "Settings file path (default <run-dir>/settings.yaml)")
	flags.StringVar(&ctx.envFile, "env-file", "", "Path to .env file, ignored if missing (default <run-dir>/.env)")
	flags.StringVar(&ctx.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&ctx.logFormat, "log-format", "", "Log format: auto, text, json")

	addRenameFlags(rootCmd, ctx)

	rootCmd.AddCommand(newRenameCommand(ctx))
	rootCmd.AddCommand(newSuggestCommand(ctx))
	rootCmd.AddCommand(newProvidersCommand())
	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newMCPCommand(ctx))

	return rootCmd
}
