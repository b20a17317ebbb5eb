package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version, set at build time with
// -ldflags "-X github.com/chrisuehlinger/boxrender/cmd.Version=1.0.0".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration or logging.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "boxrender version %s\n", Version)
		},
	}
}
