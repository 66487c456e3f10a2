// Package miner runs an SPMF algorithm end to end: stage the input, run
// the jar and parse the result file.
package miner

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hed1ad/gospmf/pkg/codec"
	"github.com/hed1ad/gospmf/pkg/runner"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

// Interface is implemented by anything that mines patterns from a prepared input.
type Interface interface {
	// Run executes the algorithm and blocks until the result file is complete.
	Run(ctx context.Context) error

	// Patterns parses the result file of the last run.
	Patterns() ([]spmf.Pattern, error)
}

// Config holds the settings shared by every run.
type Config struct {
	// JarDir is searched first for spmf.jar.
	JarDir string
	// Java is the java executable.
	Java string
	// Memory is the JVM heap limit in megabytes, 0 for the JVM default.
	Memory int
	// Output is the result file path. It is not made unique.
	Output string
	// PrintStdout echoes the tool's output to standard output.
	PrintStdout bool
}

// DefaultConfig returns the defaults of the SPMF command line.
func DefaultConfig() Config {
	return Config{
		Java:        "java",
		Output:      "spmf-output.txt",
		PrintStdout: true,
	}
}

// Miner mines one algorithm over one input.
type Miner struct {
	mu sync.Mutex

	algorithm    string
	cfg          Config
	args         []string
	stdout       io.Writer
	stagingDir   string
	carryForward bool
	vocab        *spmf.Vocabulary
	log          logrus.FieldLogger

	runner    *runner.Runner
	inputPath string
	staged    bool
	ran       bool
}

// Option configures a Miner.
type Option func(*Miner)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(m *Miner) {
		m.cfg = cfg
	}
}

// WithOutput sets the result file path.
func WithOutput(path string) Option {
	return func(m *Miner) {
		m.cfg.Output = path
	}
}

// WithArgs sets the algorithm parameters, e.g. the minimum support.
func WithArgs(values ...any) Option {
	return func(m *Miner) {
		m.args = runner.Args(values...)
	}
}

// WithMemory sets the JVM heap limit in megabytes.
func WithMemory(mb int) Option {
	return func(m *Miner) {
		m.cfg.Memory = mb
	}
}

// WithJarDir sets the directory searched first for spmf.jar.
func WithJarDir(dir string) Option {
	return func(m *Miner) {
		m.cfg.JarDir = dir
	}
}

// WithJava sets the java executable.
func WithJava(path string) Option {
	return func(m *Miner) {
		m.cfg.Java = path
	}
}

// WithStdout echoes the tool's output to w instead of standard output.
func WithStdout(w io.Writer) Option {
	return func(m *Miner) {
		m.stdout = w
		m.cfg.PrintStdout = w != nil
	}
}

// WithStagingDir sets where generated input files are written.
func WithStagingDir(dir string) Option {
	return func(m *Miner) {
		m.stagingDir = dir
	}
}

// WithCarryForward tolerates result lines without a support marker.
func WithCarryForward() Option {
	return func(m *Miner) {
		m.carryForward = true
	}
}

// WithVocabulary maps list tokens to integer items before staging and
// translates patterns back.
func WithVocabulary(v *spmf.Vocabulary) Option {
	return func(m *Miner) {
		m.vocab = v
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Miner) {
		m.log = l
	}
}

// New validates the input, stages it and locates spmf.jar.
func New(algorithm string, in spmf.Input, opts ...Option) (*Miner, error) {
	m := &Miner{
		algorithm: algorithm,
		cfg:       DefaultConfig(),
		log:       logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if algorithm == "" {
		return nil, errors.New("algorithm name is empty")
	}

	stdout := m.stdout
	if stdout == nil && m.cfg.PrintStdout {
		stdout = os.Stdout
	}
	r, err := runner.New(
		runner.WithJava(m.cfg.Java),
		runner.WithJarDir(m.cfg.JarDir),
		runner.WithMemory(m.cfg.Memory),
		runner.WithStdout(stdout),
		runner.WithLogger(m.log),
	)
	if err != nil {
		return nil, err
	}
	m.runner = r

	if list, ok := in.(spmf.NormalList); ok && m.vocab != nil {
		in = m.vocab.Encode(list)
	}

	path, err := codec.Encode(in, codec.WithDir(m.stagingDir))
	if err != nil {
		return nil, err
	}
	m.inputPath = path
	_, isFile := in.(spmf.File)
	m.staged = !isFile

	m.log.WithFields(logrus.Fields{
		"algorithm": algorithm,
		"mode":      in.Mode(),
		"input":     path,
	}).Debug("input ready")

	return m, nil
}

// InputPath returns the file the algorithm reads.
func (m *Miner) InputPath() string {
	return m.inputPath
}

// OutputPath returns the result file path.
func (m *Miner) OutputPath() string {
	return m.cfg.Output
}

// Run executes the algorithm and blocks until it exits.
func (m *Miner) Run(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.runner.Run(ctx, m.algorithm, m.inputPath, m.cfg.Output, m.args...); err != nil {
		return err
	}
	m.ran = true
	return nil
}

// Patterns parses the result file of the last successful Run.
func (m *Miner) Patterns() ([]spmf.Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ran {
		return nil, errors.New("miner has not run")
	}

	var opts []codec.DecodeOption
	if m.carryForward {
		opts = append(opts, codec.WithCarryForward())
	}
	patterns, err := codec.DecodeFile(m.cfg.Output, opts...)
	if err != nil {
		return nil, err
	}

	if m.vocab != nil {
		for i, p := range patterns {
			patterns[i] = m.vocab.Translate(p)
		}
	}
	return patterns, nil
}

// Mine runs the algorithm and returns its patterns.
func (m *Miner) Mine(ctx context.Context) ([]spmf.Pattern, error) {
	if err := m.Run(ctx); err != nil {
		return nil, err
	}
	return m.Patterns()
}

// Cleanup removes the staging file created by New. Caller-supplied input
// files and the result file are left alone.
func (m *Miner) Cleanup() error {
	if !m.staged {
		return nil
	}
	if err := os.Remove(m.inputPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
