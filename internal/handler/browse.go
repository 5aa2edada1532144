package handler

import (
	"context"
	"log/slog"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/browse"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

const (
	msgListFailed  = "❌ Could not load the list. Please try again later."
	msgMediaFailed = "❌ Could not load media. Please try again later."
	msgItemGone    = "That item is no longer available."
)

var backLabels = map[callback.Domain]string{
	callback.DomainEvents:  "🔙 Back to Events",
	callback.DomainClasses: "🔙 Back to Classes",
}

// BrowseHandler handles catalog browsing: the menu entries, paging and
// viewing the media of one item
type BrowseHandler struct {
	deps *Deps
}

// NewBrowseHandler creates a new BrowseHandler
func NewBrowseHandler(deps *Deps) *BrowseHandler {
	return &BrowseHandler{deps: deps}
}

// HandleDomain sends the first page of a domain
func (h *BrowseHandler) HandleDomain(ctx context.Context, u inbound.Update, d callback.Domain) {
	h.sendPage(ctx, u.ChatID, d, 0)
}

// HandlePage handles page_<domain>_<n> callbacks
func (h *BrowseHandler) HandlePage(ctx context.Context, u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
	h.sendPage(ctx, u.ChatID, u.Callback.Domain, u.Callback.Page)
}

// HandleBack handles back_<domain> callbacks
func (h *BrowseHandler) HandleBack(ctx context.Context, u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
	h.sendPage(ctx, u.ChatID, u.Callback.Domain, 0)
}

func (h *BrowseHandler) sendPage(ctx context.Context, chatID int64, d callback.Domain, number int) {
	info, ok := browse.Describe(d)
	if !ok {
		slog.Warn("Unknown browse domain", "domain", d)
		return
	}
	items, err := h.deps.Browse.Items(ctx, d)
	if err != nil {
		slog.Error("Failed to load browse items", "chat_id", chatID, "domain", d, "error", err)
		h.deps.Sender.SendPlain(chatID, msgListFailed)
		return
	}
	if len(items) == 0 {
		h.deps.Sender.SendPlain(chatID, info.Empty)
		return
	}
	page := browse.BuildPage(items, number, h.deps.pageSize(), d)
	h.deps.Sender.SendWithKeyboard(chatID, info.Prompt, page.Keyboard())
}

// HandleView handles view_<domain>_<id> callbacks by sending every stored
// media item of the selected entry
func (h *BrowseHandler) HandleView(ctx context.Context, u inbound.Update) {
	d := u.Callback.Domain
	info, ok := browse.Describe(d)
	if !ok {
		h.deps.Sender.AckCallback(u.CallbackID, "")
		return
	}

	item, found, err := h.deps.Browse.Resolve(ctx, d, u.Callback.ID)
	if err != nil {
		slog.Error("Failed to resolve browse selection", "chat_id", u.ChatID, "domain", d, "error", err)
		h.deps.Sender.AckCallback(u.CallbackID, "")
		h.deps.Sender.SendPlain(u.ChatID, msgListFailed)
		return
	}
	if !found {
		h.deps.Sender.AckCallback(u.CallbackID, "")
		h.deps.Sender.SendPlain(u.ChatID, msgItemGone)
		return
	}

	// Static domains filter on the id, category domains on the name.
	value := item.ID
	if info.Category != "" {
		value = item.Name
	}
	refs, err := h.deps.Store.Query(ctx, info.Filter, value, info.Kind)
	if err != nil {
		slog.Error("Failed to query media", "chat_id", u.ChatID, "domain", d, "error", err)
		h.deps.Sender.AckCallback(u.CallbackID, "")
		h.deps.Sender.SendPlain(u.ChatID, msgMediaFailed)
		return
	}

	if len(refs) == 0 {
		if label, ok := backLabels[d]; ok {
			h.deps.Sender.AckCallback(u.CallbackID, "")
			h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
			h.deps.Sender.SendWithKeyboard(u.ChatID, info.NoMedia,
				telegram.NewKeyboard().ButtonRow(label, callback.Back(d)).Build())
			return
		}
		// The category list stays in place.
		h.deps.Sender.AckCallback(u.CallbackID, "")
		h.deps.Sender.SendPlain(u.ChatID, info.NoMedia)
		return
	}

	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
	slog.Info("Sending media", "chat_id", u.ChatID, "domain", d, "item", item.ID, "count", len(refs))
	sendMedia(h.deps.Sender, u.ChatID, info.Kind, refs)
}

// sendMedia sends photos as documents and videos as videos. A failed send
// is logged by the sender and does not stop the rest.
func sendMedia(s telegram.MessageSender, chatID int64, kind media.Kind, refs []string) {
	for _, ref := range refs {
		if kind == media.KindVideo {
			s.SendVideo(chatID, ref)
		} else {
			s.SendDocument(chatID, ref)
		}
	}
}
