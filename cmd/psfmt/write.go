package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"psfmt/internal/driver"
)

const writeUsage = "usage: psfmt write <input> <output>"

var writeCmd = &cobra.Command{
	Use:   "write <input> <output>",
	Short: "Format one file into another",
	Args: func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) == 0:
			return fmt.Errorf("missing input and output paths\n%s", writeUsage)
		case len(args) == 1:
			return fmt.Errorf("missing output path\n%s", writeUsage)
		case len(args) > 2:
			return fmt.Errorf("too many arguments\n%s", writeUsage)
		}
		return nil
	},
	RunE: runWrite,
}

func init() {
	addOptionFlags(writeCmd.Flags())
}

func runWrite(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	opts, err := optionsFromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	return driver.WriteFile(cmd.Context(), args[0], args[1], driver.FormatOptions{
		Options:    opts,
		ConfigPath: configPath,
	})
}
