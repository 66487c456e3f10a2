package csv

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spmfio "github.com/hed1ad/gospmf/pkg/io"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

var _ spmfio.Reader = (*Reader)(nil)

const baskets = `visit1,visit2,visit3
bread milk,eggs,
milk,,bread eggs
,,
`

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		data string
		want []spmf.Sequence
	}{
		{
			name: "header and empty cells",
			opts: []Option{WithHeader(true)},
			data: baskets,
			want: []spmf.Sequence{
				{spmf.Items("bread", "milk"), spmf.Items("eggs")},
				{spmf.Items("milk"), spmf.Items("bread", "eggs")},
			},
		},
		{
			name: "keep empty cells",
			opts: []Option{WithHeader(true), WithSkipEmptyCells(false)},
			data: baskets,
			want: []spmf.Sequence{
				{spmf.Items("bread", "milk"), spmf.Items("eggs"), spmf.Itemset{}},
				{spmf.Items("milk"), spmf.Itemset{}, spmf.Items("bread", "eggs")},
			},
		},
		{
			name: "semicolon delimiter",
			opts: []Option{WithComma(';')},
			data: "1 2;3\n4\n",
			want: []spmf.Sequence{
				{spmf.Ints(1, 2), spmf.Ints(3)},
				{spmf.Ints(4)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReaderFrom(strings.NewReader(tt.data), tt.opts...)
			require.NoError(t, err)
			defer r.Close()

			got, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")
	require.NoError(t, os.WriteFile(path, []byte(baskets), 0644))

	r, err := NewReader(path, WithHeader(true))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"visit1", "visit2", "visit3"}, r.Headers())

	corpus, err := spmfio.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, corpus, 2)

	_, err = NewReader(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestStream(t *testing.T) {
	r, err := NewReaderFrom(strings.NewReader("1,2\n3\n\n4 5\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := r.Stream(ctx)
	require.NoError(t, err)

	var got []spmf.Sequence
	for seq := range ch {
		got = append(got, seq)
	}

	assert.Equal(t, []spmf.Sequence{
		{spmf.Ints(1), spmf.Ints(2)},
		{spmf.Ints(3)},
		{spmf.Ints(4, 5)},
	}, got)
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		name string
		in   io.Reader
		want []spmf.Sequence
	}{
		{
			name: "malformed row skipped",
			in:   strings.NewReader("a,b\nc\"d,e\nf\n"),
			want: []spmf.Sequence{
				{spmf.Items("a"), spmf.Items("b")},
				{spmf.Items("f")},
			},
		},
		{
			name: "read failure closes the channel",
			in:   iotest.ErrReader(errors.New("disk gone")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReaderFrom(tt.in)
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			ch, err := r.Stream(ctx)
			require.NoError(t, err)

			var got []spmf.Sequence
			for seq := range ch {
				got = append(got, seq)
			}
			require.NoError(t, ctx.Err(), "stream did not finish")
			assert.Equal(t, tt.want, got)
		})
	}
}
