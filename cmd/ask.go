package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/movnaglobal/chat-service/internal/app"
	"github.com/movnaglobal/chat-service/internal/chat"
	"github.com/movnaglobal/chat-service/internal/config"
	"github.com/movnaglobal/chat-service/internal/i18n"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

// runAsk answers a single question and exits. Useful for smoke-testing a
// deployment and for support staff working in the terminal.
func runAsk(cmd *cobra.Command, question string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(context.Background()); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	fmt.Fprintln(cmd.ErrOrStderr(), i18n.T(chat.DetectLanguage(question), "ask.thinking"))

	res, err := a.Chat.Respond(ctx, question, nil)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Reply)
	return nil
}
