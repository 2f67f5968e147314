package main

import (
	"fmt"

	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Editors show stderr in their server log
			if !cmd.Flags().Changed("log-level") {
				log.SetLevel(log.LevelInfo)
			}

			server, err := lsp.NewServer(root.configPath)
			if err != nil {
				return fmt.Errorf("failed to create LSP server: %w", err)
			}
			defer func() { _ = server.Close() }()

			return server.RunStdio()
		},
	}
}
