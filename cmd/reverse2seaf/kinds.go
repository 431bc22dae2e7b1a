package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/pipeline"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the conversion steps in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, step := range pipeline.Steps() {
				source := "(derived)"
				if !step.Derived() {
					source = models.SourceKindName(step.Source)
				}
				fmt.Fprintf(out, "%-24s %s\n", step.Name, source)
			}
			return nil
		},
	}
}
