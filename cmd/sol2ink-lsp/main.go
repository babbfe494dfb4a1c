// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"sol2ink/internal/config"
	"sol2ink/internal/lsp"
	"sol2ink/internal/pipeline"
)

const lsName = "sol2ink" // Name identifier for the language server

var log = commonlog.GetLogger("sol2ink.lsp")

var rootCmd = &cobra.Command{
	Use:           "sol2ink-lsp",
	Short:         "Language server reporting sol2ink translation diagnostics over stdio",
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().String("config", "", "path to the project configuration file")
	rootCmd.Flags().IntP("verbose", "v", 1, "log verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	verbosity, _ := cmd.Flags().GetInt("verbose")
	commonlog.Configure(verbosity, nil)

	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.ReadConfigFromFile(path); err != nil {
			return err
		}
	}

	// Layout lock recording stays with the CLI; the server only reports
	cfg.Layout.LockFile = ""
	translator, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	defer translator.Close()

	h := lsp.NewHandler(translator)
	handler := protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Info("starting sol2ink LSP server")
	return s.RunStdio()
}
