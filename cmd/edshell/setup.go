package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edshell/internal/config"
)

// NewSetupCmd writes a default configuration file
func NewSetupCmd() *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Write a default configuration file",
		Long:  `Write the default configuration so it can be edited by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// Handle dry run mode
			if dryRun {
				fmt.Fprintln(out, infoText("Dry run: configuration would be saved to: "+path))
				return nil
			}

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintln(out, warningText(path+" already exists. Use --force to overwrite it."))
				return nil
			}

			if err := config.SaveConfig(config.New(), path); err != nil {
				return err
			}
			fmt.Fprintln(out, successText("Configuration saved to "+path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show where the configuration would be written")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}
