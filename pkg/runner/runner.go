// Package runner invokes the SPMF jar as an external process.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

// illegalArgument is what SPMF prints when an algorithm rejects its parameters.
const illegalArgument = "java.lang.IllegalArgumentException"

// Runner builds and executes "java -jar spmf.jar run ..." command lines.
type Runner struct {
	java     string
	resolver Resolver
	memory   int
	stdout   io.Writer
	log      logrus.FieldLogger

	jar string
}

// Option configures a Runner.
type Option func(*Runner)

// WithJava sets the java executable. Defaults to "java" from PATH.
func WithJava(path string) Option {
	return func(r *Runner) {
		r.java = path
	}
}

// WithJarDir sets the directory searched first for spmf.jar.
func WithJarDir(dir string) Option {
	return func(r *Runner) {
		r.resolver.Dir = dir
	}
}

// WithJar overrides the jar file name or path.
func WithJar(jar string) Option {
	return func(r *Runner) {
		r.resolver.Jar = jar
	}
}

// WithMemory sets the JVM heap limit in megabytes. Zero leaves the JVM default.
func WithMemory(mb int) Option {
	return func(r *Runner) {
		r.memory = mb
	}
}

// WithStdout echoes the tool's standard output to w.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// New creates a Runner and locates spmf.jar.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		java: "java",
		log:  discard(),
	}

	for _, opt := range opts {
		opt(r)
	}

	jar, err := r.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	r.jar = jar

	return r, nil
}

// Jar returns the resolved jar path.
func (r *Runner) Jar() string {
	return r.jar
}

// Command returns the full argument vector, java executable first.
func (r *Runner) Command(algorithm, input, output string, args ...string) []string {
	cmd := []string{r.java}
	if r.memory > 0 {
		cmd = append(cmd, fmt.Sprintf("-Xmx%dm", r.memory))
	}
	cmd = append(cmd, "-jar", r.jar, "run", algorithm, input, output)
	return append(cmd, args...)
}

// Run executes algorithm over input and blocks until the process exits.
// The result file at output is complete once Run returns without error.
// It returns the tool's standard output.
func (r *Runner) Run(ctx context.Context, algorithm, input, output string, args ...string) (string, error) {
	argv := r.Command(algorithm, input, output, args...)
	log := r.log.WithFields(logrus.Fields{
		"algorithm": algorithm,
		"input":     input,
		"output":    output,
	})
	log.WithField("cmd", strings.Join(argv, " ")).Debug("starting spmf")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.WithField("duration", time.Since(start)).Debug("spmf exited")

	out := stdout.String()
	if r.stdout != nil {
		io.WriteString(r.stdout, out)
	} else if out != "" {
		log.Info(strings.TrimSpace(out))
	}

	if err != nil && ctx.Err() != nil {
		return out, fmt.Errorf("run %s: %w", algorithm, ctx.Err())
	}

	// SPMF reports rejected parameters on stdout, whatever its exit status.
	// An uncaught exception from the JVM lands on stderr instead.
	for _, text := range []string{out, stderr.String()} {
		if line := illegalArgumentLine(text); line != "" {
			return out, fmt.Errorf("run %s: %w: %s", algorithm, spmf.ErrIllegalArgument, line)
		}
	}

	if err != nil {
		return out, fmt.Errorf("run %s: %w: %s", algorithm, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Args renders algorithm parameters as command line arguments.
func Args(values ...any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case string:
			out[i] = t
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		case float32:
			out[i] = strconv.FormatFloat(float64(t), 'f', -1, 32)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// illegalArgumentLine returns the line of text naming the exception, if any.
func illegalArgumentLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, illegalArgument) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
