// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"sol2ink/internal/config"
)

// initCmd writes the default project configuration
var initCmd = &cobra.Command{
	Use:          "init [directory]",
	Short:        "Writes a default sol2ink.toml",
	Args:         cobra.MaximumNArgs(1),
	RunE:         cmdRunInit,
	SilenceUsage: true,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func cmdRunInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path := filepath.Join(dir, config.DefaultFileName)

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Errorf("%s already exists, use --force to overwrite it", path)
	}

	if err := config.Default().WriteToFile(path); err != nil {
		return err
	}
	color.Green("Wrote %s", path)
	return nil
}
