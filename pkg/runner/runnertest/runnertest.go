// Package runnertest provides a fake java executable for tests that run
// SPMF without a JVM.
package runnertest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Result is written to the output file by the fake for any algorithm not
// listed below.
const Result = "1 -1 #SUP: 3\n1 -1 2 -1 #SUP: 2\n2 -1 #SUP: 2\n"

// Algorithms with scripted behavior.
const (
	// Rejected prints an IllegalArgumentException on stdout and exits 0, as SPMF does.
	Rejected = "Rejected"
	// RejectedExit prints an IllegalArgumentException on stdout and exits 1.
	RejectedExit = "RejectedExit"
	// Crash exits 1 after writing to stderr.
	Crash = "Crash"
	// Echo copies the input file to the output file.
	Echo = "Echo"
)

// The script prints its arguments, skips to "run" and acts on the algorithm.
const script = `#!/bin/sh
echo "args: $*"
while [ "$#" -gt 0 ] && [ "$1" != "run" ]; do shift; done
algorithm=$2
input=$3
output=$4
case "$algorithm" in
  Rejected)
    echo "java.lang.IllegalArgumentException: minsup must be in [0,1]"
    ;;
  RejectedExit)
    echo "java.lang.IllegalArgumentException: bad minsup"
    exit 1
    ;;
  Crash)
    echo "Exception in thread main" >&2
    exit 1
    ;;
  Echo)
    cat "$input" > "$output"
    ;;
  *)
    printf 'RESULT' > "$output"
    ;;
esac
`

// Java installs a fake java executable and an empty spmf.jar in a temporary
// directory. It returns the executable path and the jar directory. Tests are
// skipped on windows.
func Java(t testing.TB) (java, jarDir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake java requires a POSIX shell")
	}

	dir := t.TempDir()
	java = filepath.Join(dir, "java")
	body := []byte(strings.ReplaceAll(script, "RESULT", strings.ReplaceAll(Result, "\n", `\n`)))
	if err := os.WriteFile(java, body, 0755); err != nil {
		t.Fatalf("write fake java: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "spmf.jar"), nil, 0644); err != nil {
		t.Fatalf("write fake jar: %v", err)
	}

	return java, dir
}
