// ABOUTME: Serve command runs the HTTP API and, when configured, the Telegram bot
// ABOUTME: Both run under one errgroup and stop together on SIGINT/SIGTERM
package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harper/mindmate/internal/api"
	"github.com/harper/mindmate/internal/channel"
)

var (
	serveAddr     string
	serveTelegram bool
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and Telegram bot",
		Long: `Run the assistant as a long-lived service.

Starts the HTTP API (chat, voice upload, schedule, settings, timeline,
dashboard) and, when TELEGRAM_BOT_TOKEN is set, the Telegram bot.
Both stop gracefully on Ctrl-C.`,
		Example: `  mindmate serve
  mindmate serve --addr 127.0.0.1:9000 --telegram=false`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: MINDMATE_HTTP_ADDR)")
	cmd.Flags().BoolVar(&serveTelegram, "telegram", true, "Start the Telegram bot when a token is configured")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiCfg := api.Config{
		Store:      a.store,
		Dispatcher: a.dispatcher,
		Logger:     a.logger.Named("http"),
	}
	if a.model != nil {
		apiCfg.Transcriber = a.model
	}
	server := api.NewServer(apiCfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, addr)
	})

	if serveTelegram && a.cfg.TelegramToken != "" {
		tgCfg := channel.TelegramConfig{
			Token:     a.cfg.TelegramToken,
			AllowFrom: a.cfg.TelegramAllowedUsers,
			Handler:   a.dispatcher,
			Settings:  a.store,
			WakeWords: a.dispatcher,
			Logger:    a.logger.Named("telegram"),
		}
		if a.model != nil {
			tgCfg.Transcriber = a.model
		}
		bot := channel.NewTelegram(tgCfg)
		g.Go(func() error {
			return bot.Start(gctx)
		})
	} else {
		a.logger.Info("telegram bot disabled")
	}

	err = g.Wait()
	if err != nil && ctx.Err() == nil {
		return err
	}
	a.logger.Info("shutdown complete", zap.NamedError("last_error", err))
	return nil
}

