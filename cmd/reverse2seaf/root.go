package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reverse2seaf",
		Short: "Convert cloud inventories to the architecture model",
		Long: `reverse2seaf reads reverse-engineered cloud inventory files, derives the
regions, zones, data centers and network segments they imply, and writes one
architecture-model YAML file per target kind together with a root.yaml index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConvertCmd(), newKindsCmd())
	return root
}
