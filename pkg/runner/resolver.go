package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

const (
	// JarName is the file name of the SPMF distribution.
	JarName = "spmf.jar"

	// HomeEnv names the environment variable consulted after the explicit directory.
	HomeEnv = "SPMF_HOME"
)

// Resolver locates spmf.jar. Directories are searched in order: Dir (the
// working directory when empty), $SPMF_HOME, then the directory holding the
// running executable.
type Resolver struct {
	Dir string
	Jar string

	// lookupEnv and executable are replaced in tests.
	lookupEnv  func(string) (string, bool)
	executable func() (string, error)
}

// Resolve returns the absolute path of the jar.
func (r Resolver) Resolve() (string, error) {
	jar := r.Jar
	if jar == "" {
		jar = JarName
	}
	if filepath.IsAbs(jar) {
		if !isFile(jar) {
			return "", fmt.Errorf("%w at %s", spmf.ErrExecutableNotFound, jar)
		}
		return jar, nil
	}

	var searched []string
	for _, dir := range r.candidates() {
		path := filepath.Join(dir, jar)
		searched = append(searched, dir)
		if isFile(path) {
			return filepath.Abs(path)
		}
	}

	return "", fmt.Errorf("%w in %s: set the jar directory explicitly", spmf.ErrExecutableNotFound, strings.Join(searched, ", "))
}

func (r Resolver) candidates() []string {
	lookupEnv := r.lookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	executable := r.executable
	if executable == nil {
		executable = os.Executable
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	if expanded, err := homedir.Expand(dir); err == nil {
		dir = expanded
	}
	dirs := []string{dir}

	if home, ok := lookupEnv(HomeEnv); ok && home != "" {
		if expanded, err := homedir.Expand(home); err == nil {
			home = expanded
		}
		dirs = append(dirs, home)
	}

	if exe, err := executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dirs = append(dirs, filepath.Dir(exe))
	}

	return dirs
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
