package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/gospmf/pkg/runner/runnertest"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

type cli struct {
	dir    string
	config string
	java   string
	jarDir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	java, jarDir := runnertest.Java(t)
	dir := t.TempDir()
	config := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(config, nil, 0644))
	return &cli{dir: dir, config: config, java: java, jarDir: jarDir}
}

func (c *cli) exec(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := NewRootCommand(NewApp(), "test", "none")
	root.SetArgs(append([]string{"--config", c.config, "--java", c.java, "--jar-dir", c.jarDir}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (c *cli) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunCommand(t *testing.T) {
	c := newCLI(t)
	input := c.write(t, "sequences.json", `[[[1, 2], [3]], [[1], [3]]]`)
	output := filepath.Join(c.dir, "out.txt")

	stdout, stderr, err := c.exec(t, "", "run", "PrefixSpan", "50%",
		"-t", "normal_list", "-i", input, "-o", output, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "PrefixSpan")

	var patterns []spmf.Pattern
	require.NoError(t, json.Unmarshal([]byte(stdout), &patterns))
	assert.Len(t, patterns, 3)
	assert.Equal(t, 3, patterns[0].Support)
	assert.FileExists(t, output)

	stdout, stderr, err = c.exec(t, "", "run", "PrefixSpan", "50%",
		"-t", "normal_list", "-i", input, "-o", output, "-q")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "args:")
	assert.NotContains(t, stdout, "args:")
	assert.Contains(t, stdout, "#SUP: 3")
}

func TestRunCommandErrors(t *testing.T) {
	c := newCLI(t)
	output := filepath.Join(c.dir, "out.txt")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{
			name: "no input mode",
			args: []string{"run", "PrefixSpan", "-o", output},
			want: ExitUsage,
		},
		{
			name: "file without path",
			args: []string{"run", "PrefixSpan", "-t", "file", "-o", output},
			want: ExitUsage,
		},
		{
			name: "unknown mode",
			args: []string{"run", "PrefixSpan", "-t", "xml", "-o", output},
			want: ExitUsage,
		},
		{
			name: "string where list expected",
			args: []string{"run", "PrefixSpan", "-t", "normal_list", "-i", c.write(t, "scalar.json", `"1 -1 -2"`), "-o", output},
			want: ExitUsage,
		},
		{
			name: "rejected parameters",
			args: []string{"run", runnertest.Rejected, "-t", "text_str", "--data", "a b.", "-o", output, "-q"},
			want: ExitToolArgument,
		},
		{
			name: "rejected parameters with failing exit",
			args: []string{"run", runnertest.RejectedExit, "-t", "text_str", "--data", "a b.", "-o", output},
			want: ExitToolArgument,
		},
		{
			name: "jar missing",
			args: []string{"run", "PrefixSpan", "--jar-dir", t.TempDir(), "-t", "text_str", "--data", "a b.", "-o", output},
			want: ExitNoExecutable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.exec(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, ExitCode(err), err.Error())
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "normal list from yaml on stdin",
			stdin: "- [[1, 2], [3]]\n- [[4]]\n",
			args:  []string{"-t", "normal_list", "-i", "-"},
			want:  "1 2 -1 3 -1 -2\n4 -1 -2\n",
		},
		{
			name: "text list",
			args: []string{"-t", "text_list", "-i", c.write(t, "sentences.json", `["a b", "c d"]`)},
			want: "a b. c d. ",
		},
		{
			name:  "text string from stdin",
			stdin: "The cat sat.",
			args:  []string{"-t", "text_str", "--data", "-"},
			want:  "The cat sat.",
		},
		{
			name: "csv with vocabulary",
			args: []string{"--csv", c.write(t, "baskets.csv", "bread milk,eggs\nmilk\n"), "--vocabulary"},
			want: "1 2 -1 3 -1 -2\n2 -1 -2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := c.exec(t, tt.stdin, append([]string{"encode", "--print"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}

	t.Run("staging file", func(t *testing.T) {
		dir := t.TempDir()
		stdout, _, err := c.exec(t, "", "encode", "-t", "normal_str", "--data", "1 -1 -2", "--dir", dir)
		require.NoError(t, err)

		path := strings.TrimSpace(stdout)
		assert.Equal(t, dir, filepath.Dir(path))
		assert.True(t, strings.HasSuffix(path, ".txt"))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "1 -1 -2", string(data))
	})
}

func TestParseCommand(t *testing.T) {
	c := newCLI(t)
	result := c.write(t, "result.txt", "1 2 -1 3 -1 -2 #SUP: 4\n\n5 -1 #SUP: 2 #SID: 0 1\n")

	stdout, _, err := c.exec(t, "", "parse", result, "-f", "template", "--template", "{{ .Support }} {{ join \",\" .Itemsets }}")
	require.NoError(t, err)
	assert.Equal(t, "4 1 2,3\n2 5\n", stdout)

	stdout, _, err = c.exec(t, "", "parse", result)
	require.NoError(t, err)
	assert.Equal(t, "1 2 -1 3 -1 #SUP: 4\n5 -1 #SUP: 2 #SID: 0 1\n", stdout)

	bad := c.write(t, "bad.txt", "1 -1 2 -1\n")
	_, _, err = c.exec(t, "", "parse", bad)
	assert.Equal(t, ExitMalformedOutput, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitError},
		{fmt.Errorf("wrap: %w", spmf.ErrNoInputMode), ExitUsage},
		{spmf.ErrUnknownMode, ExitUsage},
		{fmt.Errorf("%w: bad key", errUsage), ExitUsage},
		{spmf.ErrIllegalArgument, ExitToolArgument},
		{&spmf.LineError{Line: 1, Err: spmf.ErrMalformedOutput}, ExitMalformedOutput},
		{spmf.ErrExecutableNotFound, ExitNoExecutable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err))
	}
}

func TestConfigCommand(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.exec(t, "", "config", "set", "memory", "2048")
	require.NoError(t, err)
	_, _, err = c.exec(t, "", "config", "set-args", "PrefixSpan", "0.5", "3")
	require.NoError(t, err)

	data, err := os.ReadFile(c.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "memory: 2048")
	assert.Contains(t, string(data), "PrefixSpan")

	stdout, _, err := c.exec(t, "", "config", "view")
	require.NoError(t, err)
	assert.Contains(t, stdout, c.config)
	assert.Contains(t, stdout, "memory: 2048")

	// Stored defaults feed run when no parameters are given.
	_, stderr, err := c.exec(t, "", "run", "PrefixSpan", "-t", "text_str", "--data", "a b.", "-o", filepath.Join(c.dir, "out.txt"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "-Xmx2048m")
	assert.Contains(t, stderr, " 0.5 3")

	_, _, err = c.exec(t, "", "config", "set", "memory", "lots")
	assert.Equal(t, ExitUsage, ExitCode(err))
	_, _, err = c.exec(t, "", "config", "set", "colour", "red")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, _, err = c.exec(t, "", "config", "set-args", "PrefixSpan")
	require.NoError(t, err)
	data, err = os.ReadFile(c.config)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "PrefixSpan")
}
