package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pybackup/src/version"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the pybackup version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "pybackup %s\n", version.Version)
		},
	}
}
