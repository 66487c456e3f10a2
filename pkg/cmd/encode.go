package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hed1ad/gospmf/pkg/codec"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

func newEncodeCommand(a *App) *cobra.Command {
	var (
		inputs   inputFlags
		dir      string
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Write an SPMF input file and print its path",
		Long: `Encode converts the selected input into the text format SPMF reads.
The staging file is not removed; its path is printed on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, vocab, err := inputs.build(a)
			if err != nil {
				return err
			}
			if list, ok := in.(spmf.NormalList); ok && vocab != nil {
				in = vocab.Encode(list)
				a.Log.WithField("items", vocab.Len()).Debug("tokens mapped")
			}

			if toStdout {
				return codec.EncodeTo(a.OutWriter, in)
			}

			path, err := codec.Encode(in, codec.WithDir(dir))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.OutWriter, path)
			return nil
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVar(&dir, "dir", "", "directory for the staging file (default is the system temp dir)")
	cmd.Flags().BoolVar(&toStdout, "print", false, "print the encoded content instead of writing a file")

	return cmd
}
