package handler

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

const (
	maxInlineResults   = 20
	inlineCacheSeconds = 10
)

// IndividualsHandler handles inline search and /view_individual
type IndividualsHandler struct {
	deps *Deps
}

// NewIndividualsHandler creates a new IndividualsHandler
func NewIndividualsHandler(deps *Deps) *IndividualsHandler {
	return &IndividualsHandler{deps: deps}
}

// HandleInline answers an inline query with matching individuals. Choosing
// a result posts /view_individual <id> into the chat.
func (h *IndividualsHandler) HandleInline(u inbound.Update) {
	matches := catalog.Search(h.deps.Catalog.Individuals, u.Inline.Query)
	if len(matches) > maxInlineResults {
		matches = matches[:maxInlineResults]
	}

	results := make([]interface{}, 0, len(matches))
	for _, it := range matches {
		article := tgbotapi.NewInlineQueryResultArticle(it.ID, it.Name, "/view_individual "+it.ID)
		article.Description = "Click to see photos of " + it.Name
		results = append(results, article)
	}
	h.deps.Sender.AnswerInline(u.Inline.ID, results, inlineCacheSeconds)
}

// HandleViewIndividual handles /view_individual <id>
func (h *IndividualsHandler) HandleViewIndividual(ctx context.Context, u inbound.Update) {
	args := strings.Fields(u.Args)
	if len(args) == 0 {
		h.deps.Sender.SendPlain(u.ChatID, "Usage: /view_individual <id>")
		return
	}
	id := args[0]

	refs, err := h.deps.Store.Query(ctx, media.FilterIndividual, id, media.KindPhoto)
	if err != nil {
		slog.Error("Failed to query media", "chat_id", u.ChatID, "individual_id", id, "error", err)
		h.deps.Sender.SendPlain(u.ChatID, msgMediaFailed)
		return
	}
	if len(refs) == 0 {
		h.deps.Sender.SendPlain(u.ChatID, "No photos found for this person yet.")
		return
	}
	slog.Info("Sending media", "chat_id", u.ChatID, "individual_id", id, "count", len(refs))
	sendMedia(h.deps.Sender, u.ChatID, media.KindPhoto, refs)
}
