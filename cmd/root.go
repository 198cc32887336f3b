// Package cmd implements the movna-chat command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/movnaglobal/chat-service/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "movna-chat",
	Short: "Movna Global customer support chat service",
	Long: `movna-chat serves retrieval-augmented customer support answers for
Movna Global's structured financial products, in Hebrew and English.

Run "movna-chat serve" to start the HTTP API or "movna-chat ask" for a
one-shot answer from the terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger from the environment.
// MOVNA_LOG_LEVEL selects the level (debug, info, warn, error);
// MOVNA_LOG_JSON switches to JSON output for log shippers.
func newLogger() log.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("MOVNA_LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	return log.New(log.Config{
		Level: level,
		JSON:  os.Getenv("MOVNA_LOG_JSON") == "true",
	})
}
