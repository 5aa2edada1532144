package wizard

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// addMediaScene collects one photo or video and its classification, saves
// it once and leaves. Participant photos walk event, class and individual;
// other photos and videos jump straight to the category step.
func addMediaScene(d *StepDeps) *Scene {
	return NewScene(SceneAddMedia).
		Step(StepPromptMedia, d.promptMedia).
		Step(StepReceiveMedia, d.receiveMedia).
		Step(StepChooseBranch, d.chooseBranch).
		Step(StepSelectEvent, d.selectEvent()).
		Step(StepSelectClass, d.selectClass()).
		Step(StepSelectIndividual, d.selectIndividual(d.saveParticipant)).
		Step(StepSelectCategory, d.saveCategory)
}

func (d *StepDeps) promptMedia(ctx context.Context, s *Session, u inbound.Update) Next {
	d.Sender.SendPlain(s.ChatID, "Please upload a single photo or video. Or /cancel.")
	return Advance()
}

func mediaTypeKeyboard(kind media.Kind) (string, tgbotapi.InlineKeyboardMarkup) {
	cancel := callback.Simple(callback.KindCancelUpload)
	if kind == media.KindVideo {
		return "What type of video is this?", telegram.NewKeyboard().
			ButtonRow("🎬 Event Video", callback.Simple(callback.KindAddVideo)).
			ButtonRow("❌ Cancel", cancel).
			Build()
	}
	return "What type of photo is this?", telegram.NewKeyboard().
		ButtonRow("🏆 Participant Photo", callback.Simple(callback.KindAddParticipant)).
		ButtonRow("📸 Other Photo", callback.Simple(callback.KindAddOtherPhoto)).
		ButtonRow("❌ Cancel", cancel).
		Build()
}

func (d *StepDeps) receiveMedia(ctx context.Context, s *Session, u inbound.Update) Next {
	if u.Media == nil {
		d.Sender.SendPlain(u.ChatID, "That was not a valid photo or video. Please send one, or /cancel.")
		return Repeat()
	}
	s.FileID = u.Media.FileID
	s.Kind = u.Media.Kind

	text, kb := mediaTypeKeyboard(s.Kind)
	d.Sender.SendWithKeyboard(u.ChatID, text, kb)
	return Advance()
}

func (d *StepDeps) chooseBranch(ctx context.Context, s *Session, u inbound.Update) Next {
	photo := s.Kind == media.KindPhoto
	switch {
	case photo && u.CallbackIs(callback.KindAddParticipant):
		d.Sender.DeleteMessage(u.ChatID, u.MessageID)
		s.CategoryType = media.CategoryParticipant
		d.Sender.Send(u.ChatID, promptSearch("Event"))
		return Advance()

	case photo && u.CallbackIs(callback.KindAddOtherPhoto):
		d.Sender.DeleteMessage(u.ChatID, u.MessageID)
		s.CategoryType = media.CategoryOtherPhoto
		if err := d.offerCategories(ctx, s, "Select an existing category, or type a new one (e.g., Trophies, Guests):"); err != nil {
			return Leave()
		}
		return JumpTo(StepSelectCategory)

	case !photo && u.CallbackIs(callback.KindAddVideo):
		d.Sender.DeleteMessage(u.ChatID, u.MessageID)
		s.CategoryType = media.CategoryVideo
		if err := d.offerCategories(ctx, s, "Select an existing video category, or type a new one:"); err != nil {
			return Leave()
		}
		return JumpTo(StepSelectCategory)
	}

	text, kb := mediaTypeKeyboard(s.Kind)
	d.Sender.SendWithKeyboard(u.ChatID, "Please choose one of the options below.\n\n"+text, kb)
	return Repeat()
}

func (d *StepDeps) saveParticipant(ctx context.Context, s *Session, u inbound.Update, it catalog.Item) Next {
	s.Individual = &it
	if err := guard(s, fieldFile, fieldKind, fieldCategoryType, fieldEvent, fieldClass, fieldIndividual); err != nil {
		return d.corrupt(s, err)
	}
	if err := d.save(ctx, s, participantRecord(s, s.FileID, s.Kind)); err != nil {
		d.Sender.SendPlain(u.ChatID, msgSaveFailed)
		return Leave()
	}
	d.Sender.SendPlain(u.ChatID, "✅ Success! Participant photo has been added.")
	return Leave()
}

func (d *StepDeps) saveCategory(ctx context.Context, s *Session, u inbound.Update) Next {
	name, next, ok := d.pickCategory(ctx, s, u)
	if !ok {
		return next
	}
	s.Category = name
	if err := guard(s, fieldFile, fieldKind, fieldCategoryType, fieldCategory); err != nil {
		return d.corrupt(s, err)
	}
	if err := d.save(ctx, s, categoryRecord(s, s.FileID, s.Kind)); err != nil {
		d.Sender.SendPlain(u.ChatID, msgSaveFailed)
		return Leave()
	}
	d.Sender.SendPlain(u.ChatID, fmt.Sprintf("✅ Success! Media added to the \"%s\" category.", name))
	return Leave()
}
