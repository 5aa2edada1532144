package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/browse"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/config"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/dispatch"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/handler"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/wizard"
)

const msgBusy = "⏳ Still working on your earlier messages. Please try again in a moment."

// UpdateObserver counts inbound updates by kind.
type UpdateObserver interface {
	ObserveUpdate(kind string)
}

// Bot is the main Telegram bot struct with DI
type Bot struct {
	api      *tgbotapi.BotAPI
	username string
	auth     *Auth
	router   *Router
	sender   telegram.MessageSender
	wizard   *wizard.Handler
	queue    *dispatch.Queue

	updateObs UpdateObserver
	wizardObs wizard.Observer
}

// Option configures the Bot.
type Option func(*Bot)

// WithUpdateObserver sets the observer of inbound updates.
func WithUpdateObserver(o UpdateObserver) Option {
	return func(b *Bot) {
		b.updateObs = o
	}
}

// WithWizardObserver sets the observer of upload sessions and saves.
func WithWizardObserver(o wizard.Observer) Option {
	return func(b *Bot) {
		b.wizardObs = o
	}
}

// New connects to Telegram and wires every handler against the given
// catalog and media store.
func New(cfg *config.Config, cat *catalog.Catalog, store media.Store, version string, opts ...Option) (*Bot, error) {
	api, err := telegram.NewBotAPI(cfg.BotToken, cfg.ProxyURL)
	if err != nil {
		return nil, err
	}

	slog.Info("Authorized", "username", api.Self.UserName)

	b := newBot(cfg, cat, store, telegram.NewSender(api), api.Self.UserName, version, opts...)
	b.api = api
	return b, nil
}

func newBot(cfg *config.Config, cat *catalog.Catalog, store media.Store, sender telegram.MessageSender,
	username, version string, opts ...Option) *Bot {
	b := &Bot{
		username: username,
		auth:     NewAuth(cfg.Admins),
		sender:   sender,
		queue:    dispatch.NewQueue(cfg.MaxConcurrentUpdates),
	}

	for _, opt := range opts {
		opt(b)
	}

	resolver := browse.NewResolver(cat, store)

	deps := &handler.Deps{
		Sender:      sender,
		Store:       store,
		Catalog:     cat,
		Browse:      resolver,
		BotUsername: username,
		PageSize:    cfg.PageSize,
		Version:     version,
	}

	b.wizard = wizard.NewHandler(&wizard.StepDeps{
		Sender:   sender,
		Store:    store,
		Catalog:  cat,
		Browse:   resolver,
		Observer: b.wizardObs,
	})

	b.router = NewRouter(b.auth, sender,
		handler.NewMenuHandler(deps),
		handler.NewBrowseHandler(deps),
		handler.NewIndividualsHandler(deps),
		handler.NewAdminHandler(deps),
		b.wizard,
	)

	if b.auth.Len() == 0 {
		slog.Warn("No admins configured, uploads and clearing are disabled")
	}
	return b
}

// RegisterCommands registers bot commands with Telegram
func (b *Bot) RegisterCommands() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Main menu"},
		{Command: "help", Description: "Command list"},
		{Command: "add", Description: "Add one photo or video (admin)"},
		{Command: "batchadd", Description: "Add many photos of one participant (admin)"},
		{Command: "batchcategory", Description: "Add many photos or videos to a category (admin)"},
		{Command: "cancel", Description: "Cancel the current upload"},
		{Command: "stop", Description: "Finish batch mode"},
		{Command: "clearsheet", Description: "Delete all media records (admin)"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	_, err := b.api.Request(cfg)
	if err != nil {
		return err
	}

	slog.Info("Registered bot commands", "count", len(commands))
	return nil
}

// SetWebhook points Telegram at url. Telegram sends secret back in the
// X-Telegram-Bot-Api-Secret-Token header of every delivery.
func (b *Bot) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if _, err := b.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	slog.Info("Webhook registered", "url", url)
	return nil
}

// DeleteWebhook removes any webhook so long polling can receive updates.
func (b *Bot) DeleteWebhook() error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// Start starts the update queue. Webhook mode calls it before serving;
// Run calls it itself.
func (b *Bot) Start(ctx context.Context) {
	b.queue.Start(ctx)
}

// Stop drops queued updates and waits for running handlers to return.
func (b *Bot) Stop() {
	b.queue.Stop()
}

// Run long-polls Telegram and processes updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) {
	b.Start(ctx)
	defer b.Stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = telegram.PollTimeout
	updates := b.api.GetUpdatesChan(u)

	slog.Info("Bot started, waiting for messages")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				slog.Warn("Updates channel closed, stopping bot")
				return
			}
			b.HandleUpdate(update)
		}
	}
}

// HandleUpdate queues a Telegram update on its conversation's lane.
// Updates of one chat are handled in arrival order.
func (b *Bot) HandleUpdate(tu tgbotapi.Update) {
	u, ok := inbound.FromTelegram(tu)
	if !ok {
		slog.Debug("Skipping update", "update_id", tu.UpdateID)
		return
	}

	kind := updateKind(u)
	if b.updateObs != nil {
		b.updateObs.ObserveUpdate(kind)
	}
	logUpdate(u, kind)

	key := u.ChatID
	if key == 0 {
		key = u.UserID
	}
	if err := b.queue.Enqueue(key, func(ctx context.Context) {
		b.router.Route(ctx, u)
	}); err != nil {
		slog.Error("Failed to queue update", "chat_id", u.ChatID, "update_id", tu.UpdateID, "error", err)
		if errors.Is(err, dispatch.ErrLaneFull) && u.ChatID != 0 {
			b.sender.SendPlain(u.ChatID, msgBusy)
		}
	}
}

func updateKind(u inbound.Update) string {
	switch {
	case u.Inline != nil:
		return "inline"
	case u.IsCallback():
		return "callback"
	case u.IsCommand():
		return "command"
	case u.Media != nil:
		return "media"
	case u.IsText():
		return "text"
	}
	return "other"
}

// logUpdate logs commands and callbacks at info level. Free text and
// inline queries may carry personal names, so they only appear at debug.
func logUpdate(u inbound.Update, kind string) {
	switch kind {
	case "command":
		slog.Info("Command received", "chat_id", u.ChatID, "user_id", u.UserID, "command", sanitizeCommand(u))
	case "callback":
		slog.Info("Callback received", "chat_id", u.ChatID, "user_id", u.UserID, "data", u.CallbackData)
	case "media":
		slog.Info("Media received", "chat_id", u.ChatID, "user_id", u.UserID, "media_type", u.Media.Kind)
	case "inline":
		slog.Debug("Inline query received", "user_id", u.UserID, "query", u.Inline.Query)
	default:
		slog.Debug("Message received", "chat_id", u.ChatID, "user_id", u.UserID, "text", u.Text)
	}
}

// sanitizeCommand returns a safe-to-log representation of a command.
// Arguments are redacted except for commands whose argument is an id.
func sanitizeCommand(u inbound.Update) string {
	cmd := "/" + u.Command
	if u.Args == "" {
		return cmd
	}
	switch u.Command {
	case "view_individual":
		return cmd + " " + u.Args
	}
	return cmd + " [REDACTED]"
}

// Sender returns the message sender.
func (b *Bot) Sender() telegram.MessageSender {
	return b.sender
}

// AdminChats returns the private chat ids of numerically configured admins.
func (b *Bot) AdminChats() []int64 {
	return b.auth.IDs()
}

// Username returns the bot's Telegram username.
func (b *Bot) Username() string {
	return b.username
}
