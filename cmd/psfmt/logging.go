package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// setupLogging attaches a console logger on stderr to the command context.
// Packages below pick it up with zerolog.Ctx.
func setupLogging(cmd *cobra.Command) error {
	levelStr, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !isTerminal(os.Stderr),
		TimeFormat: time.TimeOnly,
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Str("cmd", cmd.Name()).Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}
