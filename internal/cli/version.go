package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/buildinfo"
)

func versionCmd() *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), format, buildinfo.Get(), func(w io.Writer) {
				fmt.Fprintln(w, buildinfo.String())
			})
		},
	}
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}
