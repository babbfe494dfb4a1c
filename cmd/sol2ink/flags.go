// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"sol2ink/internal/config"
)

// addTranslationFlags adds the flags shared by translate and check
func addTranslationFlags(flags *pflag.FlagSet) {
	flags.String("lock", "", "path of the storage layout lock (overrides layout.lock_file)")
	flags.Bool("strict", false, "report integer narrowing as an error")
	flags.Int("workers", 0, "contracts translated in parallel (overrides pipeline.workers)")
}

// loadConfig reads the configuration given with --config, or sol2ink.toml
// next to the source file, falling back to the defaults
func loadConfig(cmd *cobra.Command, source string) (*config.ProjectConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("config") {
		return config.ReadConfigFromFile(path)
	}

	path = filepath.Join(filepath.Dir(source), config.DefaultFileName)
	if _, err := os.Stat(path); err == nil {
		log.Infof("reading the configuration file at %s", path)
		return config.ReadConfigFromFile(path)
	}
	log.Debugf("no configuration at %s, using defaults", path)
	return config.Default(), nil
}

// updateConfigWithFlags applies the flags that were set on the command line
func updateConfigWithFlags(cmd *cobra.Command, cfg *config.ProjectConfig) error {
	flags := cmd.Flags()

	if flags.Changed("lock") {
		lock, err := flags.GetString("lock")
		if err != nil {
			return err
		}
		cfg.Layout.LockFile = lock
	}

	if flags.Changed("strict") {
		strict, err := flags.GetBool("strict")
		if err != nil {
			return err
		}
		if strict {
			cfg.Diagnostics.Narrowing = config.NarrowingError
		} else {
			cfg.Diagnostics.Narrowing = config.NarrowingWarn
		}
	}

	if flags.Changed("workers") {
		workers, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Pipeline.Workers = workers
	}

	return errors.WithMessage(cfg.Validate(), "invalid configuration")
}
