package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rirurin/FileEmulationFramework"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump <uasset-file>",
		Short: "Print a single uasset's header and names directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := uecastoc.SummarizeAsset(args[0])
			if err != nil {
				return fmt.Errorf("summarize %s: %w", args[0], err)
			}
			summary.Fprint(cmd.OutOrStdout())
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
