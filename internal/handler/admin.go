package handler

import (
	"context"
	"log/slog"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// AdminHandler handles the bulk clear of the media store. Callers are
// checked by the router before any method runs.
type AdminHandler struct {
	deps *Deps
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(deps *Deps) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleClearSheet handles /clearsheet command
func (h *AdminHandler) HandleClearSheet(u inbound.Update) {
	h.deps.Sender.SendWithKeyboard(u.ChatID, "🗑️ Are you sure you want to delete ALL media records?",
		telegram.NewKeyboard().
			Button("YES, DELETE ALL", callback.Simple(callback.KindConfirmClear)).
			Button("CANCEL", callback.Simple(callback.KindCancelClear)).
			Build())
}

// HandleConfirmClear deletes every record
func (h *AdminHandler) HandleConfirmClear(ctx context.Context, u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
	h.deps.Sender.SendPlain(u.ChatID, "Clearing all data...")

	if err := h.deps.Store.ClearAll(ctx); err != nil {
		slog.Error("Failed to clear media store", "chat_id", u.ChatID, "user_id", u.UserID, "error", err)
		h.deps.Sender.SendPlain(u.ChatID, "❌ An error occurred.")
		return
	}
	slog.Warn("Media store cleared", "chat_id", u.ChatID, "user_id", u.UserID)
	h.deps.Sender.SendPlain(u.ChatID, "✅ Success! All media records have been deleted.")
}

// HandleCancelClear handles the cancel_clear callback
func (h *AdminHandler) HandleCancelClear(u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
	h.deps.Sender.SendPlain(u.ChatID, "Clear operation cancelled.")
}
