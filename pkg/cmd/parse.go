package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hed1ad/gospmf/pkg/codec"
)

func newParseCommand(a *App) *cobra.Command {
	var carryForward bool

	cmd := &cobra.Command{
		Use:   "parse RESULT_FILE",
		Short: "Parse an SPMF result file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []codec.DecodeOption
			if carryForward {
				opts = append(opts, codec.WithCarryForward())
			}

			patterns, err := codec.DecodeFile(args[0], opts...)
			if err != nil {
				return err
			}
			return a.Report(patterns)
		},
	}

	addReportFlags(cmd, a)
	cmd.Flags().BoolVar(&carryForward, "carry-forward", false, "reuse the previous support for result lines without one")

	return cmd
}
