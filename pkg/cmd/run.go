package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hed1ad/gospmf/pkg/miner"
)

func newRunCommand(a *App) *cobra.Command {
	var (
		inputs       inputFlags
		output       string
		quiet        bool
		keepInput    bool
		carryForward bool
	)

	cmd := &cobra.Command{
		Use:   "run ALGORITHM [PARAMS...]",
		Short: "Run an SPMF algorithm and print the mined patterns",
		Example: `  spmf run PrefixSpan 50% -t normal_list -i sequences.json
  spmf run CM-SPAM 0.4 -t file -i contextPrefixSpan.txt -f json
  spmf run PrefixSpan 0.1 --pcap capture.pcap --window 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm := args[0]
			params := args[1:]
			if len(params) == 0 {
				params = a.Cfg.Args(algorithm)
			}

			in, vocab, err := inputs.build(a)
			if err != nil {
				return err
			}

			cfg := a.MinerConfig()
			if output != "" {
				cfg.Output = output
			}
			opts := []miner.Option{
				miner.WithConfig(cfg),
				miner.WithLogger(a.Log),
				miner.WithArgs(stringsToAny(params)...),
				miner.WithVocabulary(vocab),
			}
			// Stdout carries the report, so the tool's chatter goes to stderr.
			switch {
			case quiet:
				opts = append(opts, miner.WithStdout(io.Discard))
			case cfg.PrintStdout:
				opts = append(opts, miner.WithStdout(a.ErrWriter))
			}
			if carryForward {
				opts = append(opts, miner.WithCarryForward())
			}

			m, err := miner.New(algorithm, in, opts...)
			if err != nil {
				return err
			}
			if !keepInput {
				defer func() {
					if err := m.Cleanup(); err != nil {
						a.Log.WithError(err).Warn("remove staging file")
					}
				}()
			}

			patterns, err := m.Mine(cmd.Context())
			if err != nil {
				return err
			}
			a.Log.WithField("patterns", len(patterns)).Debug("mining done")

			return a.Report(patterns)
		},
	}

	inputs.register(cmd)
	addReportFlags(cmd, a)
	cmd.Flags().StringVarP(&output, "output", "o", "", "result file written by SPMF (default spmf-output.txt)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not echo SPMF's console output")
	cmd.Flags().BoolVar(&keepInput, "keep-input", false, "keep the generated input file")
	cmd.Flags().BoolVar(&carryForward, "carry-forward", false, "reuse the previous support for result lines without one")

	return cmd
}

func stringsToAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
