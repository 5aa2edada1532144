package wizard

import (
	"context"
	"strings"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// batchAddScene fixes event, class and individual once, then saves every
// photo that follows until /stop.
func batchAddScene(d *StepDeps) *Scene {
	return NewScene(SceneBatchAdd).
		Step(StepPromptEvent, d.promptBatchEvent).
		Step(StepSelectEvent, d.selectEvent()).
		Step(StepSelectClass, d.selectClass()).
		Step(StepSelectIndividual, d.selectIndividual(d.announceParticipantBatch)).
		Step(StepListening, d.listening(media.KindPhoto,
			"Invalid input. Please send a photo/document or type /stop.",
			[]string{fieldCategoryType, fieldEvent, fieldClass, fieldIndividual},
			func(s *Session, m *inbound.Media) media.Record {
				return participantRecord(s, m.FileID, m.Kind)
			}))
}

func (d *StepDeps) promptBatchEvent(ctx context.Context, s *Session, u inbound.Update) Next {
	s.CategoryType = media.CategoryParticipant
	s.Kind = media.KindPhoto
	d.Sender.Send(s.ChatID, telegram.EscapeMarkdownV2("--- Batch Add Participant ---")+
		"\nFirst, please type the name of the "+telegram.Bold("Event")+" to search:")
	return Advance()
}

func (d *StepDeps) announceParticipantBatch(ctx context.Context, s *Session, u inbound.Update, it catalog.Item) Next {
	s.Individual = &it
	if err := guard(s, fieldEvent, fieldClass, fieldIndividual); err != nil {
		return d.corrupt(s, err)
	}
	d.Sender.Send(u.ChatID, strings.Join([]string{
		telegram.EscapeMarkdownV2("✅ Batch Mode Active"),
		telegram.EscapeMarkdownV2("Adding all media for:"),
		telegram.Bullet("Individual", s.Individual.Name),
		telegram.Bullet("Event", s.Event.Name),
		telegram.Bullet("Class", s.Class.Name),
		"",
		telegram.EscapeMarkdownV2("Send me all the photos or documents now. Type /stop when you are finished."),
	}, "\n"))
	return Advance()
}

// batchCategoryScene fixes a media kind and a category once, then saves
// every matching item that follows until /stop.
func batchCategoryScene(d *StepDeps) *Scene {
	return NewScene(SceneBatchCategory).
		Step(StepPromptKind, d.promptKind).
		Step(StepChooseKind, d.chooseKind).
		Step(StepSelectCategory, d.announceCategoryBatch).
		Step(StepListening, d.categoryListening)
}

const msgChooseKind = "--- Batch Add Category ---\nFirst, what are you batch-uploading?"

func (d *StepDeps) sendKindKeyboard(chatID int64, text string) {
	d.Sender.SendWithKeyboard(chatID, text, telegram.NewKeyboard().
		ButtonRow("📸 Other Photos", callback.Simple(callback.KindBatchOtherPhoto)).
		ButtonRow("🎬 Videos", callback.Simple(callback.KindBatchVideo)).
		ButtonRow("❌ Cancel", callback.Simple(callback.KindCancelUpload)).
		Build())
}

func (d *StepDeps) promptKind(ctx context.Context, s *Session, u inbound.Update) Next {
	d.sendKindKeyboard(s.ChatID, msgChooseKind)
	return Advance()
}

func (d *StepDeps) chooseKind(ctx context.Context, s *Session, u inbound.Update) Next {
	var label string
	switch {
	case u.CallbackIs(callback.KindBatchOtherPhoto):
		s.CategoryType, s.Kind, label = media.CategoryOtherPhoto, media.KindPhoto, "Other Photo"
	case u.CallbackIs(callback.KindBatchVideo):
		s.CategoryType, s.Kind, label = media.CategoryVideo, media.KindVideo, "Video"
	default:
		d.sendKindKeyboard(u.ChatID, "Please choose one of the options below.")
		return Repeat()
	}
	d.Sender.DeleteMessage(u.ChatID, u.MessageID)
	if err := d.offerCategories(ctx, s, `Select an existing "`+label+`" category, or type a new one:`); err != nil {
		return Leave()
	}
	return Advance()
}

func (d *StepDeps) announceCategoryBatch(ctx context.Context, s *Session, u inbound.Update) Next {
	name, next, ok := d.pickCategory(ctx, s, u)
	if !ok {
		return next
	}
	s.Category = name
	if err := guard(s, fieldKind, fieldCategoryType, fieldCategory); err != nil {
		return d.corrupt(s, err)
	}
	d.Sender.Send(u.ChatID, strings.Join([]string{
		telegram.EscapeMarkdownV2("✅ Batch Mode Active"),
		telegram.EscapeMarkdownV2("Adding all media for category:"),
		telegram.Bullet("Category", s.Category),
		telegram.Bullet("Type", string(s.Kind)),
		"",
		telegram.EscapeMarkdownV2("Send me all your media now. Type /stop when you are finished."),
	}, "\n"))
	return Advance()
}

// categoryListening accepts only the kind chosen in choose_kind.
func (d *StepDeps) categoryListening(ctx context.Context, s *Session, u inbound.Update) Next {
	step := d.listening(s.Kind, "Invalid input. Please send a "+string(s.Kind)+" or type /stop.",
		[]string{fieldKind, fieldCategoryType, fieldCategory},
		func(s *Session, m *inbound.Media) media.Record {
			return categoryRecord(s, m.FileID, m.Kind)
		})
	return step(ctx, s, u)
}
