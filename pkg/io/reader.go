// Package io provides input/output utilities around the miner: sources of
// sequences and sinks for pattern records.
package io

import (
	"context"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

// Reader is the interface for reading sequence corpora from various sources.
type Reader interface {
	// Read returns the complete corpus.
	Read() ([]spmf.Sequence, error)

	// Stream returns a channel of sequences as they become available.
	Stream(ctx context.Context) (<-chan spmf.Sequence, error)

	// Close releases resources.
	Close() error
}

// Writer is the interface for writing mined patterns.
type Writer interface {
	// Write outputs a single pattern.
	Write(p spmf.Pattern) error

	// WriteAll outputs multiple patterns.
	WriteAll(patterns []spmf.Pattern) error

	// Close flushes and releases resources.
	Close() error
}

// ReadAll drains a reader into a normal_list input.
func ReadAll(r Reader) (spmf.NormalList, error) {
	seqs, err := r.Read()
	if err != nil {
		return nil, err
	}
	return spmf.NormalList(seqs), nil
}
