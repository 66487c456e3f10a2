// Package csv reads sequence corpora from CSV files: one sequence per row,
// one itemset per cell, items separated by whitespace inside a cell.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

// Reader reads sequences from CSV files.
type Reader struct {
	file      *os.File
	reader    *csv.Reader
	hasHeader bool
	headers   []string
	skipEmpty bool
}

// Option configures a CSV reader.
type Option func(*Reader)

// WithHeader indicates the CSV has a header row.
func WithHeader(has bool) Option {
	return func(r *Reader) {
		r.hasHeader = has
	}
}

// WithComma sets the field delimiter.
func WithComma(c rune) Option {
	return func(r *Reader) {
		r.reader.Comma = c
	}
}

// WithSkipEmptyCells drops cells without items instead of emitting empty itemsets.
func WithSkipEmptyCells(skip bool) Option {
	return func(r *Reader) {
		r.skipEmpty = skip
	}
}

// NewReader creates a new CSV reader.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := newReader(file, opts...)
	r.file = file

	if err := r.readHeader(); err != nil {
		file.Close()
		return nil, err
	}

	return r, nil
}

// NewReaderFrom reads CSV data from src. Close does not close src.
func NewReaderFrom(src io.Reader, opts ...Option) (*Reader, error) {
	r := newReader(src, opts...)
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func newReader(src io.Reader, opts ...Option) *Reader {
	cr := csv.NewReader(src)
	// Sequences have different lengths.
	cr.FieldsPerRecord = -1

	r := &Reader{
		reader:    cr,
		hasHeader: false,
		skipEmpty: true,
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) readHeader() error {
	if !r.hasHeader {
		return nil
	}
	headers, err := r.reader.Read()
	if err != nil {
		return err
	}
	r.headers = headers
	return nil
}

// Headers returns the column headers.
func (r *Reader) Headers() []string {
	return r.headers
}

// Read returns all rows as sequences. Rows without any item are skipped.
func (r *Reader) Read() ([]spmf.Sequence, error) {
	var data []spmf.Sequence

	for {
		record, err := r.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		seq, err := r.parseRow(record)
		if err != nil {
			continue
		}
		data = append(data, seq)
	}

	return data, nil
}

// Stream returns a channel of sequences for incremental processing.
func (r *Reader) Stream(ctx context.Context) (<-chan spmf.Sequence, error) {
	out := make(chan spmf.Sequence, 100)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				record, err := r.reader.Read()
				if err != nil {
					// A malformed row is skipped; the reader moves on to the next line.
					var perr *csv.ParseError
					if errors.As(err, &perr) {
						continue
					}
					return
				}

				seq, err := r.parseRow(record)
				if err != nil {
					continue
				}

				select {
				case out <- seq:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseRow converts a record to a sequence.
func (r *Reader) parseRow(record []string) (spmf.Sequence, error) {
	seq := make(spmf.Sequence, 0, len(record))
	items := 0
	for _, cell := range record {
		set := spmf.Itemset(strings.Fields(cell))
		if len(set) == 0 && r.skipEmpty {
			continue
		}
		items += len(set)
		seq = append(seq, set)
	}
	if items == 0 {
		return nil, errors.New("empty row")
	}
	return seq, nil
}
