package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/germanamz/ngx-renamer/pkg/renamer"
)

func newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported LLM providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), providersTable())
			return nil
		},
	}
}

func providersTable() string {
	regs := renamer.Providers()

	rows := make([][]string, 0, len(regs))
	for _, r := range regs {
		rows = append(rows, []string{r.Name, strings.Join(r.Aliases, ", "), r.Credential, r.DefaultModel})
	}

	return renderTable([]string{"Provider", "Aliases", "Requires", "Default model"}, rows)
}
