package commands

import (
	"github.com/ncobase/ncrud/cmd/ncrud/commands/serve"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "ncrud",
		Short:         "Continuation tokens, cursors and typed frames for paged APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(
		newTokenCommand(),
		newCursorCommand(),
		newFrameCommand(),
		newVersionCommand(),
		serve.NewCommand(&configPath),
	)

	return rootCmd
}
