package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/hed1ad/gospmf/pkg/config"
	"github.com/hed1ad/gospmf/pkg/io/report"
	"github.com/hed1ad/gospmf/pkg/miner"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

// App holds the state shared by all commands of one invocation.
type App struct {
	// I/O
	OutWriter io.Writer
	ErrWriter io.Writer
	InReader  io.Reader

	// Config state
	Cfg      config.Config
	CfgFile  string
	LogLevel string
	Log      *logrus.Logger

	// Overrides of the config file
	JarDir string
	Java   string
	Memory int

	// Display
	Format   report.Format
	Template string
	Color    bool
}

// NewApp creates an App with sane defaults.
func NewApp() *App {
	return &App{
		OutWriter: os.Stdout,
		ErrWriter: os.Stderr,
		InReader:  os.Stdin,
		LogLevel:  "info",
		Log:       logrus.New(),
		Format:    report.FormatText,
	}
}

// InitConfig reads the config file and sets up logging.
// Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	level, err := logrus.ParseLevel(a.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.Log.SetLevel(level)
	a.Log.SetOutput(a.ErrWriter)

	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.Log.WithField("path", a.Cfg.Path()).Debug("config loaded")
	return nil
}

// MinerConfig merges command line overrides over the config file.
func (a *App) MinerConfig() miner.Config {
	cfg := a.Cfg.Miner()
	if a.JarDir != "" {
		cfg.JarDir = a.JarDir
	}
	if a.Java != "" {
		cfg.Java = a.Java
	}
	if a.Memory > 0 {
		cfg.Memory = a.Memory
	}
	return cfg
}

// Report writes patterns to OutWriter in the selected format.
func (a *App) Report(patterns []spmf.Pattern) error {
	out := a.OutWriter
	if a.Color && out == os.Stdout {
		out = colorable.NewColorableStdout()
	}

	w, err := report.NewWriter(out, a.Format, report.Options{Color: a.Color, Template: a.Template})
	if err != nil {
		return err
	}
	if err := w.WriteAll(patterns); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// errUsage marks command line mistakes that have no sentinel of their own.
var errUsage = errors.New("invalid usage")

// Exit codes by error kind.
const (
	ExitOK = iota
	ExitError
	ExitUsage
	ExitToolArgument
	ExitMalformedOutput
	ExitNoExecutable
)

// ExitCode classifies err into a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, spmf.ErrNoInputMode),
		errors.Is(err, spmf.ErrNoInputFile),
		errors.Is(err, spmf.ErrInputShape),
		errors.Is(err, errUsage):
		return ExitUsage
	case errors.Is(err, spmf.ErrIllegalArgument):
		return ExitToolArgument
	case errors.Is(err, spmf.ErrMalformedOutput):
		return ExitMalformedOutput
	case errors.Is(err, spmf.ErrExecutableNotFound):
		return ExitNoExecutable
	default:
		return ExitError
	}
}
