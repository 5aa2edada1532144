package handler

import (
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/browse"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// Deps holds dependencies for all stateless handlers
type Deps struct {
	Sender      telegram.MessageSender
	Store       media.Store
	Catalog     *catalog.Catalog
	Browse      *browse.Resolver
	BotUsername string // shown in the inline search how-to
	PageSize    int    // browse page size, DefaultPageSize when zero
	Version     string
}

func (d *Deps) pageSize() int {
	if d.PageSize <= 0 {
		return browse.DefaultPageSize
	}
	return d.PageSize
}
