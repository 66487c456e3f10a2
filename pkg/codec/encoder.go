// Package codec converts between in-memory data and the SPMF text formats:
// the sequence database the tool reads and the result file it writes.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

// TextSeparator follows every sentence of a text_list input.
const TextSeparator = ". "

// EncodeOption configures staging file creation.
type EncodeOption func(*encoder)

type encoder struct {
	dir     string
	pattern string
}

// WithDir sets the directory staging files are created in.
func WithDir(dir string) EncodeOption {
	return func(e *encoder) {
		e.dir = dir
	}
}

// WithPrefix sets the name prefix of staging files.
func WithPrefix(prefix string) EncodeOption {
	return func(e *encoder) {
		e.pattern = prefix
	}
}

// Encode returns the path of an SPMF input file for in. File inputs are
// passed through; every other mode is written to a new staging file whose
// name ends with the mode's suffix. Staging files are left for the caller
// to remove.
func Encode(in spmf.Input, opts ...EncodeOption) (string, error) {
	if in == nil {
		return "", spmf.ErrNoInputMode
	}
	if f, ok := in.(spmf.File); ok {
		if f == "" {
			return "", spmf.ErrNoInputFile
		}
		return string(f), nil
	}

	e := &encoder{pattern: "spmf-"}
	for _, opt := range opts {
		opt(e)
	}

	return e.stage(in)
}

func (e *encoder) stage(in spmf.Input) (string, error) {
	file, err := os.CreateTemp(e.dir, e.pattern+"*"+in.Mode().Suffix())
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	name := file.Name()

	if err := EncodeTo(file, in); err != nil {
		file.Close()
		os.Remove(name)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close staging file: %w", err)
	}

	return name, nil
}

// EncodeTo writes the SPMF representation of in to w.
func EncodeTo(w io.Writer, in spmf.Input) error {
	bw := bufio.NewWriter(w)

	switch v := in.(type) {
	case spmf.NormalString:
		bw.WriteString(string(v))
	case spmf.TextString:
		bw.WriteString(string(v))
	case spmf.NormalList:
		for _, seq := range v {
			writeSequence(bw, seq)
		}
	case spmf.TextList:
		for _, sentence := range v {
			bw.WriteString(sentence)
			bw.WriteString(TextSeparator)
		}
	case nil:
		return spmf.ErrNoInputMode
	default:
		return fmt.Errorf("%w: %s input can not be encoded", spmf.ErrInputShape, in.Mode())
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write input: %w", err)
	}
	return nil
}

// writeSequence emits one line: every item followed by a space, "-1 " after
// each itemset and "-2" before the newline.
func writeSequence(w *bufio.Writer, seq spmf.Sequence) {
	for _, set := range seq {
		for _, item := range set {
			w.WriteString(item)
			w.WriteByte(' ')
		}
		w.WriteString(spmf.ItemsetEnd)
		w.WriteByte(' ')
	}
	w.WriteString(spmf.SequenceEnd)
	w.WriteByte('\n')
}
