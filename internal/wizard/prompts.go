package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/browse"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

const (
	msgSaveFailed       = "❌ An error occurred while saving to the database."
	msgCategoriesFailed = "❌ Could not load categories. Please try again later."
	msgInvalidCategory  = "Invalid selection. Please click a button or type a new category name."
	msgStaleSelection   = "That selection is no longer available. Type a name to search again:"
	msgStaleCategory    = "That category is no longer available. Type a category name instead:"
	msgBatchStopped     = "Batch mode stopped."
)

func (d *StepDeps) classKeyboard() tgbotapi.InlineKeyboardMarkup {
	return browse.ItemList(d.Catalog.Classes, callback.KindSelectClass)
}

func promptSearch(noun string) string {
	return "Please type the name of the " + telegram.Bold(noun) + " to search:"
}

// search describes a free-text search step over a catalog list.
type search struct {
	items   []catalog.Item
	kind    callback.Kind
	plural  string
	invalid string
	onPick  func(ctx context.Context, s *Session, u inbound.Update, it catalog.Item) Next
}

// searchStep matches typed text against item names and waits for one of
// the offered items to be selected.
func (d *StepDeps) searchStep(sr search) StepFunc {
	return func(ctx context.Context, s *Session, u inbound.Update) Next {
		switch {
		case u.CallbackIs(sr.kind):
			it, ok := catalog.Find(sr.items, u.Callback.ID)
			if !ok {
				d.Sender.SendPlain(u.ChatID, msgStaleSelection)
				return Repeat()
			}
			d.Sender.DeleteMessage(u.ChatID, u.MessageID)
			return sr.onPick(ctx, s, u, it)
		case u.IsText():
			matches := catalog.Search(sr.items, u.Text)
			if len(matches) == 0 {
				d.Sender.SendPlain(u.ChatID, fmt.Sprintf("No %s found. Try typing another name:", sr.plural))
				return Repeat()
			}
			d.Sender.SendWithKeyboard(u.ChatID,
				fmt.Sprintf("Found these %s. Select one:", sr.plural),
				browse.ItemList(matches, sr.kind))
			return Repeat()
		default:
			d.Sender.SendPlain(u.ChatID, sr.invalid)
			return Repeat()
		}
	}
}

// selectEvent searches events, then offers the class list.
func (d *StepDeps) selectEvent() StepFunc {
	return d.searchStep(search{
		items:   d.Catalog.Events,
		kind:    callback.KindSelectEvent,
		plural:  "events",
		invalid: "Please type a valid event name.",
		onPick: func(ctx context.Context, s *Session, u inbound.Update, it catalog.Item) Next {
			s.Event = &it
			d.Sender.SendWithKeyboard(u.ChatID,
				fmt.Sprintf("Event set: %s\n\nNow, select the Class:", it.Name),
				d.classKeyboard())
			return Advance()
		},
	})
}

// selectClass waits for a class button, then asks for the individual.
func (d *StepDeps) selectClass() StepFunc {
	return func(ctx context.Context, s *Session, u inbound.Update) Next {
		if u.CallbackIs(callback.KindSelectClass) {
			if it, ok := catalog.Find(d.Catalog.Classes, u.Callback.ID); ok {
				s.Class = &it
				d.Sender.DeleteMessage(u.ChatID, u.MessageID)
				d.Sender.Send(u.ChatID,
					telegram.EscapeMarkdownV2("Class set: "+it.Name)+"\n\n"+promptSearch("Individual"))
				return Advance()
			}
		}
		d.Sender.SendWithKeyboard(u.ChatID, "Please select a class from the list:", d.classKeyboard())
		return Repeat()
	}
}

// selectIndividual searches individuals and hands the pick to onPick.
func (d *StepDeps) selectIndividual(onPick func(ctx context.Context, s *Session, u inbound.Update, it catalog.Item) Next) StepFunc {
	return d.searchStep(search{
		items:   d.Catalog.Individuals,
		kind:    callback.KindSelectIndividual,
		plural:  "individuals",
		invalid: "Please type a valid name.",
		onPick:  onPick,
	})
}

// offerCategories lists the stored categories of the session's category
// type with a free-text hint.
func (d *StepDeps) offerCategories(ctx context.Context, s *Session, text string) error {
	items, err := d.Browse.Categories(ctx, s.CategoryType)
	if err != nil {
		slog.Error("Failed to load categories", "chat_id", s.ChatID, "category_type", s.CategoryType, "error", err)
		d.Sender.SendPlain(s.ChatID, msgCategoriesFailed)
		return err
	}
	d.Sender.SendWithKeyboard(s.ChatID, text, browse.ItemList(items, callback.KindSelectCategory))
	return nil
}

// pickCategory resolves a category button or a typed category name. When
// ok is false the step must return next.
func (d *StepDeps) pickCategory(ctx context.Context, s *Session, u inbound.Update) (name string, next Next, ok bool) {
	switch {
	case u.CallbackIs(callback.KindSelectCategory):
		items, err := d.Browse.Categories(ctx, s.CategoryType)
		if err != nil {
			slog.Error("Failed to load categories", "chat_id", s.ChatID, "category_type", s.CategoryType, "error", err)
			d.Sender.SendPlain(u.ChatID, msgCategoriesFailed)
			return "", Leave(), false
		}
		it, found := catalog.Find(items, u.Callback.ID)
		if !found {
			d.Sender.SendPlain(u.ChatID, msgStaleCategory)
			return "", Repeat(), false
		}
		d.Sender.DeleteMessage(u.ChatID, u.MessageID)
		return it.Name, Next{}, true
	case u.IsText():
		if name := strings.TrimSpace(u.Text); name != "" {
			return name, Next{}, true
		}
	}
	d.Sender.SendPlain(u.ChatID, msgInvalidCategory)
	return "", Repeat(), false
}

func participantRecord(s *Session, fileID string, kind media.Kind) media.Record {
	return media.Record{
		FileID:         fileID,
		Kind:           kind,
		CategoryType:   s.CategoryType,
		EventID:        s.Event.ID,
		EventName:      s.Event.Name,
		ClassID:        s.Class.ID,
		ClassName:      s.Class.Name,
		IndividualID:   s.Individual.ID,
		IndividualName: s.Individual.Name,
	}
}

func categoryRecord(s *Session, fileID string, kind media.Kind) media.Record {
	return media.Record{
		FileID:       fileID,
		Kind:         kind,
		CategoryType: s.CategoryType,
		Category:     s.Category,
	}
}

func (d *StepDeps) save(ctx context.Context, s *Session, rec media.Record) error {
	if err := d.Store.Append(ctx, rec); err != nil {
		slog.Error("Failed to save media record", "chat_id", s.ChatID, "scene", s.Scene, "error", err)
		return err
	}
	d.observer().ObserveSaved(rec.CategoryType)
	slog.Info("Media record saved", "chat_id", s.ChatID, "scene", s.Scene,
		"category_type", rec.CategoryType, "media_type", rec.Kind)
	return nil
}

// corrupt reports missing session data and ends the scene.
func (d *StepDeps) corrupt(s *Session, err error) Next {
	slog.Error("Session data missing at save", "chat_id", s.ChatID, "scene", s.Scene, "step", s.Step, "error", err)
	d.Sender.SendPlain(s.ChatID, fmt.Sprintf(
		"❌ An unexpected error occurred. Session data was missing. Please start over with /%s.", s.Scene.Command()))
	return Leave()
}

// listening accepts media of the given kind until /stop, saving each item
// against the attributes fixed earlier in the scene.
func (d *StepDeps) listening(kind media.Kind, invalid string, required []string,
	build func(s *Session, m *inbound.Media) media.Record) StepFunc {
	return func(ctx context.Context, s *Session, u inbound.Update) Next {
		if u.Command == "stop" {
			slog.Info("Batch mode stopped", "chat_id", s.ChatID, "scene", s.Scene, "saved", s.Saved)
			d.Sender.SendPlain(u.ChatID, msgBatchStopped)
			return Leave()
		}
		if u.Media == nil || u.Media.Kind != kind {
			d.Sender.SendPlain(u.ChatID, invalid)
			return Repeat()
		}
		if err := guard(s, required...); err != nil {
			return d.corrupt(s, err)
		}
		if err := d.save(ctx, s, build(s, u.Media)); err != nil {
			d.Sender.SendPlain(u.ChatID, fmt.Sprintf("❌ Failed to save message %d. Please try again.", u.MessageID))
			return Repeat()
		}
		s.Saved++
		d.Sender.SendPlain(u.ChatID, fmt.Sprintf("✅ Saved (%d)", s.Saved))
		return Repeat()
	}
}
