package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rirurin/FileEmulationFramework"
)

var buildOutDir string

func init() {
	cmd := &cobra.Command{
		Use:   "build <mod-root>...",
		Short: "Merge one or more mod trees and emit the sentinel UTOC",
		Long: `build collects FEmulator/UTOC contributions from every mod root given
on the command line, resolves them into a single table of contents, and
writes the result to <out>/UnrealEssentials_P.utoc.

Example:
  uecastoc-inspect build ./Mods/ModA ./Mods/ModB --out ./staging
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBuild,
	}
	cmd.Flags().StringVar(&buildOutDir, "out", ".", "directory to write the sentinel UTOC into")
	rootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	e := uecastoc.NewEmulator()
	for _, modRoot := range args {
		modID := filepath.Base(modRoot)
		if err := e.AddFromFolders(modID, modRoot); err != nil {
			return fmt.Errorf("add mod %q: %w", modID, err)
		}
	}

	for _, skip := range e.Diagnostics() {
		fmt.Fprintf(cmd.ErrOrStderr(), "skip: %s: %s\n", skip.Path, skip.Reason)
	}

	tocPath := filepath.Join(buildOutDir, uecastoc.SentinelName+".utoc")
	utoc, err := e.BuildTableOfContents(tocPath)
	if err != nil {
		return fmt.Errorf("build table of contents: %w", err)
	}
	if err := os.MkdirAll(buildOutDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tocPath, utoc, 0o644); err != nil {
		return err
	}

	blocks, err := e.GetVirtualPartition(filepath.Join(buildOutDir, uecastoc.SentinelName+".ucas"))
	if err != nil {
		return fmt.Errorf("resolve virtual partition: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", tocPath, len(utoc))
	fmt.Fprintf(cmd.OutOrStdout(), "virtual partition: %d blocks\n", len(blocks))
	return nil
}
