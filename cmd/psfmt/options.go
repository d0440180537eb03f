package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"psfmt/internal/config"
	"psfmt/internal/plugin"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List formatter options with their defaults",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	optionsCmd.Flags().String("format", "text", "output format (text|json)")
}

func runOptions(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	schema := plugin.OptionSchema()
	switch format {
	case "text":
		return renderOptionsText(cmd.OutOrStdout(), schema)
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Languages []plugin.Language `json:"languages"`
			Options   []config.Field    `json:"options"`
		}{plugin.Languages(), schema})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderOptionsText(out io.Writer, schema []config.Field) error {
	nameColor := color.New(color.Bold)
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell })
	for _, f := range schema {
		typ := string(f.Type)
		if len(f.Choices) > 0 {
			typ = strings.Join(f.Choices, "|")
		}
		def := f.Default
		if def == "" {
			def = "-"
		}
		t.Row(nameColor.Sprint(f.Name), "--"+config.FlagName(f.Name), typ, def, f.Description)
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}
