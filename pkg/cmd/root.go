// Package cmd implements the spmf command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hed1ad/gospmf/pkg/io/report"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(NewApp(), version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree around a.
func NewRootCommand(a *App, version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:          "spmf",
		Short:        "Run SPMF pattern mining algorithms and parse their results",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			return a.InitConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.spmf/config)")
	root.PersistentFlags().StringVar(&a.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.JarDir, "jar-dir", "", "directory containing spmf.jar")
	root.PersistentFlags().StringVar(&a.Java, "java", "", "java executable")
	root.PersistentFlags().IntVar(&a.Memory, "memory", 0, "JVM heap limit in megabytes")

	root.AddCommand(
		newRunCommand(a),
		newEncodeCommand(a),
		newParseCommand(a),
		newConfigCommand(a),
	)

	return root
}

func addReportFlags(cmd *cobra.Command, a *App) {
	cmd.Flags().VarP(&a.Format, "format", "f", "output format: text, json, json-each-row, msgpack, template")
	cmd.Flags().StringVar(&a.Template, "template", "", "Go template executed per pattern with --format template")
	cmd.Flags().BoolVar(&a.Color, "color", false, "colorize JSON output")
	cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(report.Formats))
		for i, f := range report.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
