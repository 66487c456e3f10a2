package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	spmfio "github.com/hed1ad/gospmf/pkg/io"
	"github.com/hed1ad/gospmf/pkg/io/csv"
	"github.com/hed1ad/gospmf/pkg/io/pcap"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

// inputFlags selects where the corpus comes from.
type inputFlags struct {
	mode   string
	path   string
	data   string
	csv    string
	header bool
	pcap   string
	window int
	vocab  bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "input-type", "t", "", "input mode: file, normal_str, text_str, normal_list or text_list")
	cmd.Flags().StringVarP(&f.path, "input", "i", "", "input file; for list modes a JSON or YAML document, - for stdin")
	cmd.Flags().StringVar(&f.data, "data", "", "inline input for normal_str and text_str, - for stdin")
	cmd.Flags().StringVar(&f.csv, "csv", "", "read sequences from a CSV file, one per row")
	cmd.Flags().BoolVar(&f.header, "csv-header", false, "the CSV file has a header row")
	cmd.Flags().StringVar(&f.pcap, "pcap", "", "read one sequence per flow from a pcap or pcapng file")
	cmd.Flags().IntVar(&f.window, "window", 0, "maximum packets per sequence for --pcap")
	cmd.Flags().BoolVar(&f.vocab, "vocabulary", false, "map tokens to integer items and back")
	cmd.MarkFlagsMutuallyExclusive("csv", "pcap", "input-type")

	cmd.RegisterFlagCompletionFunc("input-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(spmf.Modes))
		for i, m := range spmf.Modes {
			names[i] = string(m)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// build returns the typed input and, when tokens must be mapped, a vocabulary.
func (f *inputFlags) build(a *App) (spmf.Input, *spmf.Vocabulary, error) {
	var vocab *spmf.Vocabulary
	if f.vocab {
		vocab = spmf.NewVocabulary()
	}

	switch {
	case f.csv != "":
		r, err := csv.NewReader(f.csv, csv.WithHeader(f.header))
		if err != nil {
			return nil, nil, err
		}
		return readSource(r, vocab)
	case f.pcap != "":
		// Packet tokens are never integers.
		if vocab == nil {
			vocab = spmf.NewVocabulary()
		}
		r, err := pcap.NewFileReader(f.pcap, pcap.WithWindow(f.window))
		if err != nil {
			return nil, nil, err
		}
		return readSource(r, vocab)
	}

	var raw any
	switch spmf.Mode(f.mode) {
	case spmf.ModeNormalString, spmf.ModeTextString:
		s, err := f.readString(a)
		if err != nil {
			return nil, nil, err
		}
		raw = s
	case spmf.ModeNormalList, spmf.ModeTextList:
		doc, err := f.readDocument(a)
		if err != nil {
			return nil, nil, err
		}
		raw = doc
	}

	in, err := spmf.ParseInput(f.mode, f.path, raw)
	if err != nil {
		return nil, nil, err
	}
	return in, vocab, nil
}

func readSource(r spmfio.Reader, vocab *spmf.Vocabulary) (spmf.Input, *spmf.Vocabulary, error) {
	defer r.Close()
	corpus, err := spmfio.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return corpus, vocab, nil
}

func (f *inputFlags) readString(a *App) (string, error) {
	switch {
	case f.data == "-":
		b, err := io.ReadAll(a.InReader)
		return string(b), err
	case f.data != "":
		return f.data, nil
	case f.path != "":
		b, err := os.ReadFile(f.path)
		return string(b), err
	default:
		return "", fmt.Errorf("%w: %s needs --data or --input", spmf.ErrInputShape, f.mode)
	}
}

// readDocument decodes a JSON or YAML list.
func (f *inputFlags) readDocument(a *App) (any, error) {
	var (
		b   []byte
		err error
	)
	switch f.path {
	case "":
		return nil, fmt.Errorf("%w: %s needs --input", spmf.ErrInputShape, f.mode)
	case "-":
		b, err = io.ReadAll(a.InReader)
	default:
		b, err = os.ReadFile(f.path)
	}
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s document: %v", spmf.ErrInputShape, f.mode, err)
	}
	return doc, nil
}
