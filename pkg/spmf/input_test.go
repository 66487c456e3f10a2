package spmf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("")
	assert.ErrorIs(t, err, ErrNoInputMode)

	for _, bad := range []string{"csv", "FILE", "normal-list"} {
		_, err := ParseMode(bad)
		assert.ErrorIs(t, err, ErrUnknownMode, bad)
		assert.ErrorIs(t, err, ErrInputShape, bad)
	}
}

func TestModeSuffix(t *testing.T) {
	assert.Equal(t, ".txt", ModeNormalString.Suffix())
	assert.Equal(t, ".txt", ModeNormalList.Suffix())
	assert.Equal(t, ".text", ModeTextString.Suffix())
	assert.Equal(t, ".text", ModeTextList.Suffix())
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		path    string
		raw     any
		want    Input
		wantErr error
	}{
		{
			name: "file ignores raw",
			mode: "file",
			path: "input.txt",
			raw:  []any{"ignored"},
			want: File("input.txt"),
		},
		{
			name:    "file without path",
			mode:    "file",
			wantErr: ErrNoInputFile,
		},
		{
			name:    "no mode",
			mode:    "",
			raw:     "1 -1 -2",
			wantErr: ErrNoInputMode,
		},
		{
			name:    "unknown mode",
			mode:    "json",
			raw:     "1 -1 -2",
			wantErr: ErrUnknownMode,
		},
		{
			name: "normal string",
			mode: "normal_str",
			raw:  "1 -1 -2\n",
			want: NormalString("1 -1 -2\n"),
		},
		{
			name:    "normal string given a list",
			mode:    "normal_str",
			raw:     []any{"1"},
			wantErr: ErrInputShape,
		},
		{
			name: "text string",
			mode: "text_str",
			raw:  "Hello world.",
			want: TextString("Hello world."),
		},
		{
			name: "normal list from decoded json",
			mode: "normal_list",
			raw:  []any{[]any{[]any{1, 2.0}, []any{"c"}}},
			want: NormalList{{Itemset{"1", "2"}, Itemset{"c"}}},
		},
		{
			name: "normal list from ints",
			mode: "normal_list",
			raw:  [][][]int{{{1, 2}, {3}}},
			want: NormalList{{Ints(1, 2), Ints(3)}},
		},
		{
			name: "normal list from strings",
			mode: "normal_list",
			raw:  [][][]string{{{"a"}}},
			want: NormalList{{Items("a")}},
		},
		{
			name:    "normal list given a string",
			mode:    "normal_list",
			raw:     "1 2 -1 -2",
			wantErr: ErrInputShape,
		},
		{
			name:    "normal list with flat sequence",
			mode:    "normal_list",
			raw:     []any{[]any{1, 2}},
			wantErr: ErrInputShape,
		},
		{
			name:    "normal list with unsupported item",
			mode:    "normal_list",
			raw:     []any{[]any{[]any{map[string]any{}}}},
			wantErr: ErrInputShape,
		},
		{
			name: "text list",
			mode: "text_list",
			raw:  []any{"a b", "c d"},
			want: TextList{"a b", "c d"},
		},
		{
			name: "empty text list",
			mode: "text_list",
			raw:  []string{},
			want: TextList{},
		},
		{
			name:    "text list given a string",
			mode:    "text_list",
			raw:     "a b",
			wantErr: ErrInputShape,
		},
		{
			name:    "text list with number",
			mode:    "text_list",
			raw:     []any{"a", 1},
			wantErr: ErrInputShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(tt.mode, tt.path, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, Mode(tt.mode), got.Mode())
		})
	}
}

func TestToken(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"a", "a"},
		{7, "7"},
		{int64(-1), "-1"},
		{uint64(9), "9"},
		{3.0, "3"},
		{0.25, "0.25"},
		{true, "true"},
	}
	for _, tt := range tests {
		got, err := Token(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Token([]int{1})
	assert.Error(t, err)
}

func TestPattern(t *testing.T) {
	p := Pattern{Support: 2, Itemsets: []string{"1 2", "3"}}
	assert.Equal(t, "1 2 -1 3 -1 #SUP: 2", p.String())
	assert.Equal(t, [][]string{{"1", "2"}, {"3"}}, p.Items())
}
