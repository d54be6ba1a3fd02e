package commands

import (
	"fmt"

	"github.com/ncobase/ncrud/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetVersionInfo()
			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.JSON())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
