package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/bot"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/httpapi"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/backend"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/startup"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telemetry"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var webhook bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Long: `Runs the bot until interrupted.

By default updates are fetched with long polling and the HTTP server only
exposes /healthz and /metrics. With --webhook Telegram delivers updates to
the configured webhook path instead.`,
		Example: `  # Long polling with production paths
  fest-bot serve

  # Local testing against testdata/dev
  fest-bot serve --dev

  # Webhook delivery
  TELEGRAM_WEBHOOK_URL=https://bot.example.org/telegram/webhook fest-bot serve --webhook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags, webhook)
		},
	}

	cmd.Flags().BoolVar(&webhook, "webhook", false, "Receive updates over HTTP instead of long polling")

	return cmd
}

func serve(ctx context.Context, flags *globalFlags, webhook bool) error {
	rt, err := setup(flags, true)
	if errors.Is(err, errConfigMissing) {
		// nothing to serve yet
		return nil
	}
	if err != nil {
		return err
	}
	defer rt.logger.Close()
	cfg := rt.cfg

	if strings.TrimSpace(cfg.BotToken) == "" {
		return fmt.Errorf("bot token not configured")
	}

	if err := rt.logger.StartRotation(ctx, cfg.MaxLogSize, cfg.LogRotationSchedule); err != nil {
		return err
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing.OTLPEndpoint, cfg.Tracing.Environment, Version)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	cat, err := loadCatalog(catalogPath(cfg, rt.paths))
	if err != nil {
		return err
	}

	metrics := telemetry.NewCollector()

	opened, err := backend.Open(ctx, cfg.Store, rt.paths, metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := opened.Close(); err != nil {
			slog.Warn("Failed to close media store", "error", err)
		}
	}()

	b, err := bot.New(cfg, cat, opened.Store, Version,
		bot.WithUpdateObserver(metrics),
		bot.WithWizardObserver(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	if err := b.RegisterCommands(); err != nil {
		slog.Warn("Failed to register commands", "error", err)
	}

	if err := startup.AnnounceIfNew(b.Sender(), b.AdminChats(), rt.paths.AnnouncementFile(), startup.Announcement{
		Version:     Version,
		Store:       cfg.Store.Backend,
		Events:      len(cat.Events),
		Classes:     len(cat.Classes),
		Individuals: len(cat.Individuals),
	}); err != nil {
		slog.Warn("Failed to announce startup", "error", err)
	}

	opts := httpapi.Options{
		Version: Version,
		Metrics: metrics.Handler(),
	}
	if webhook {
		opts.WebhookPath = cfg.Webhook.Path
		opts.SecretToken = cfg.Webhook.SecretToken
		if cfg.Webhook.URL != "" {
			if err := b.SetWebhook(cfg.Webhook.URL, cfg.Webhook.SecretToken); err != nil {
				return err
			}
		} else {
			slog.Warn("Webhook URL not configured, assuming it was registered elsewhere")
		}
	} else if err := b.DeleteWebhook(); err != nil {
		slog.Warn("Failed to remove webhook before polling", "error", err)
	}
	server := httpapi.NewServer(b, opts)

	slog.Info("Telegram Bot started", "version", versionString(), "webhook", webhook,
		"catalog_events", len(cat.Events), "store", cfg.Store.Backend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.Webhook.ListenAddr)
	})
	if webhook {
		b.Start(gctx)
		defer b.Stop()
	} else {
		g.Go(func() error {
			b.Run(gctx)
			if gctx.Err() == nil {
				return errors.New("update polling stopped")
			}
			return nil
		})
	}

	err = g.Wait()
	slog.Info("Bot stopped")
	return err
}
