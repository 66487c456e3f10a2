package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/hed1ad/gospmf/pkg/config"
)

func newConfigCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle spmf configuration",
	}

	cmd.AddCommand(
		newConfigViewCommand(a),
		newConfigSetCommand(a),
		newConfigSetArgsCommand(a),
	)

	return cmd
}

func newConfigViewCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the configuration file path and contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.OutWriter, "# %s\n", a.Cfg.Path())
			enc := yaml.NewEncoder(a.OutWriter)
			defer enc.Close()
			return enc.Encode(&a.Cfg)
		},
	}
}

func newConfigSetCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a setting in the configuration file",
		Long:  "Keys: jar-dir, java, memory, output, print-stdout.",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Cfg.Set(args[0], args[1]); err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Set %s in %s.\n", args[0], a.Cfg.Path())
			return nil
		},
	}
}

func newConfigSetArgsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-args ALGORITHM [PARAMS...]",
		Short: "Store default parameters for an algorithm, used when run gets none",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Cfg.SetArgs(args[0], args[1:])
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			if len(args) == 1 {
				fmt.Fprintf(a.OutWriter, "Removed defaults for %s.\n", args[0])
				return nil
			}
			fmt.Fprintf(a.OutWriter, "Stored defaults for %s.\n", args[0])
			return nil
		},
	}
}
