// Package browse builds paginated catalog keyboards and resolves browse
// selections against static and store-derived catalogs.
package browse

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// DefaultPageSize is the number of items per browse page.
const DefaultPageSize = 8

// Page is one derived slice of a catalog. It is never stored; the same
// inputs always yield the same page.
type Page struct {
	Domain  callback.Domain
	Number  int
	Items   []catalog.Item
	HasPrev bool
	HasNext bool
}

// BuildPage slices items[number*size : (number+1)*size]. Numbers past the
// last page are clamped to it.
func BuildPage(items []catalog.Item, number, size int, domain callback.Domain) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 0 {
		number = 0
	}
	if last := lastPage(len(items), size); number > last {
		number = last
	}

	start := number * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return Page{
		Domain:  domain,
		Number:  number,
		Items:   items[start:end],
		HasPrev: number > 0,
		HasNext: end < len(items),
	}
}

func lastPage(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n - 1) / size
}

// Keyboard renders one view button per item and a navigation row.
func (p Page) Keyboard() tgbotapi.InlineKeyboardMarkup {
	kb := telegram.NewKeyboard()
	for _, it := range p.Items {
		kb.ButtonRow(it.Name, callback.View(p.Domain, it.ID))
	}
	if p.HasPrev {
		kb.Button("⬅️ Back", callback.Page(p.Domain, p.Number-1))
	}
	kb.Button("🏠 Menu", callback.Simple(callback.KindMainMenu))
	if p.HasNext {
		kb.Button("Next ➡️", callback.Page(p.Domain, p.Number+1))
	}
	return kb.Build()
}

// ItemList renders a non-paged selection list for a wizard step, with a
// cancel row at the bottom.
func ItemList(items []catalog.Item, kind callback.Kind) tgbotapi.InlineKeyboardMarkup {
	kb := telegram.NewKeyboard()
	for _, it := range items {
		kb.ButtonRow(it.Name, callback.Select(kind, it.ID))
	}
	kb.ButtonRow("❌ Cancel Upload", callback.Simple(callback.KindCancelUpload))
	return kb.Build()
}
