package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"psfmt/internal/diagfmt"
	"psfmt/internal/driver"
)

var astCmd = &cobra.Command{
	Use:   "ast [flags] file.ps1",
	Short: "Print the syntax tree of a PowerShell source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	astCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runAST(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	switch format {
	case "tree":
		return diagfmt.FormatASTPretty(cmd.OutOrStdout(), result.Script, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(cmd.OutOrStdout(), result.Script)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
