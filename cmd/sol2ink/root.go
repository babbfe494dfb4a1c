// SPDX-License-Identifier: Apache-2.0
package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var rootCmd = &cobra.Command{
	Use:   "sol2ink",
	Short: "Translates Solidity contracts into ink!-style components",
	Long:  "sol2ink translates Solidity contracts, interfaces and libraries into a structured component representation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		commonlog.Configure(verbosity, nil)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to the project configuration file (default: sol2ink.toml next to the source)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
}
