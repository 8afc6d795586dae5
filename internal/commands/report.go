package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendwise/internal/report"
)

func newReportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report <file> <target-savings>",
		Short: "Run the analysis and print it as tables",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := analyze(cmd, opts, args[0], args[1])
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), state)
		},
	}
}
