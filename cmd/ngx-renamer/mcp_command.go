package main

import (
	"github.com/spf13/cobra"

	"github.com/germanamz/ngx-renamer/pkg/mcpserver"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve rename_document and suggest_title over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, log, err := ctx.pipeline()
			if err != nil {
				return err
			}

			srv := mcpserver.New("ngx-renamer", version)
			srv.Register(mcpserver.Tools(r)...)

			log.Info("serving mcp on stdio")

			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	addRenameFlags(cmd, ctx)

	return cmd
}
