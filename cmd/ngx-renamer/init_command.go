package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/germanamz/ngx-renamer/pkg/settings"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter settings.yaml interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ctx.resolvedSettingsPath()

			if _, err := os.Stat(path); err == nil && !force {
				overwrite := false
				if err := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().Title(path + " exists. Overwrite?").Value(&overwrite),
				)).Run(); err != nil {
					return err
				}
				if !overwrite {
					fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("left "+path+" unchanged"))
					return nil
				}
			}

			answers, err := runWizard()
			if err != nil {
				return err
			}

			s, err := buildSettings(answers)
			if err != nil {
				return err
			}

			if err := writeSettings(path, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("wrote"), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing settings file without asking")

	return cmd
}

func writeSettings(path string, s *settings.Settings) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
