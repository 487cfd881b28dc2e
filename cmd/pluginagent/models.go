package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var errNoModels = errors.New("no Gemini models available")

func (a *app) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the Gemini models usable for generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			credential, err := a.credential()
			if err != nil {
				return err
			}
			models, err := a.listModels(cmd.Context(), credential)
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			if len(models) == 0 {
				return errNoModels
			}

			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tINPUT TOKENS\tOUTPUT TOKENS")
			for _, m := range models {
				marker := ""
				if m.Name == a.cfg.Provider.Model {
					marker = " (configured)"
				}
				fmt.Fprintf(w, "%s%s\t%d\t%d\n", m.Name, marker, m.InputTokenLimit, m.OutputTokenLimit)
			}
			return w.Flush()
		},
	}
}
