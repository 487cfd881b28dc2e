package main

import (
	"fmt"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/plugin"
	"github.com/spf13/cobra"
)

func (a *app) createVirtualCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "create-virtual <profile_path>",
		Short: "Generate a virtual plugin from a plugin profile",
		Long: `Generates a virtual plugin whose behavior is driven by the scenarios in
the profile's behavioral_profile. The plugin is written to
<output>/<profile name>, replacing any previous version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = a.underRoot(a.cfg.Paths.Output)
			}
			dir, err := plugin.NewFactory(a.logger).Create(args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Virtual plugin created at %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory to create the plugin in (default: <root>/output)")
	return cmd
}
