package main

import (
	"os"

	"github.com/hed1ad/gospmf/pkg/cmd"
)

// Set via ldflags at release time.
var (
	commit  = "HEAD"
	version = "latest"
)

func main() {
	if err := cmd.Execute(version, commit); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
