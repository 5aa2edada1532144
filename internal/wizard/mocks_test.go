package wizard

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/browse"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

// trackingSender records every outgoing action
type trackingSender struct {
	messages []sentMessage
	deleted  []int
}

func (m *trackingSender) record(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text, keyboard: kb})
	return nil
}

func (m *trackingSender) Send(chatID int64, text string) error {
	return m.record(chatID, text, nil)
}

func (m *trackingSender) SendPlain(chatID int64, text string) error {
	return m.record(chatID, text, nil)
}

func (m *trackingSender) SendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	return m.record(chatID, text, &kb)
}

func (m *trackingSender) SendWithReplyKeyboard(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) error {
	return m.record(chatID, text, nil)
}

func (m *trackingSender) SendDocument(chatID int64, fileID string) error { return nil }
func (m *trackingSender) SendVideo(chatID int64, fileID string) error    { return nil }
func (m *trackingSender) DeleteMessage(chatID int64, msgID int)          { m.deleted = append(m.deleted, msgID) }
func (m *trackingSender) AckCallback(callbackID, text string) error      { return nil }
func (m *trackingSender) AnswerInline(queryID string, results []interface{}, cacheSeconds int) error {
	return nil
}

func (m *trackingSender) last() sentMessage {
	if len(m.messages) == 0 {
		return sentMessage{}
	}
	return m.messages[len(m.messages)-1]
}

// trackingStore records appends and can be told to fail
type trackingStore struct {
	appended   []media.Record
	failAppend int
	categories map[media.CategoryType][]string
	catErr     error
}

func (s *trackingStore) Append(ctx context.Context, rec media.Record) error {
	if s.failAppend > 0 {
		s.failAppend--
		return media.Wrap("append", errors.New("sheet unavailable"))
	}
	s.appended = append(s.appended, rec)
	return nil
}

func (s *trackingStore) Query(ctx context.Context, key media.FilterKey, value string, kind media.Kind) ([]string, error) {
	return nil, nil
}

func (s *trackingStore) DistinctCategories(ctx context.Context, ct media.CategoryType) ([]string, error) {
	if s.catErr != nil {
		return nil, s.catErr
	}
	return s.categories[ct], nil
}

func (s *trackingStore) ClearAll(ctx context.Context) error { return nil }

type countingObserver struct {
	sessions int
	saved    map[media.CategoryType]int
}

func (o *countingObserver) ObserveSessions(active int) { o.sessions = active }
func (o *countingObserver) ObserveSaved(ct media.CategoryType) {
	if o.saved == nil {
		o.saved = make(map[media.CategoryType]int)
	}
	o.saved[ct]++
}

const chat = int64(100)

func newTestHandler(store *trackingStore) (*Handler, *trackingSender) {
	sender := &trackingSender{}
	cat := catalog.Default()
	deps := &StepDeps{
		Sender:  sender,
		Store:   store,
		Catalog: cat,
		Browse:  browse.NewResolver(cat, store),
	}
	return NewHandler(deps), sender
}

func textMsg(text string) inbound.Update {
	return inbound.Update{ChatID: chat, MessageID: 10, Text: text}
}

func commandMsg(name string) inbound.Update {
	return inbound.Update{ChatID: chat, MessageID: 11, Command: name}
}

func photoMsg(fileID string, msgID int) inbound.Update {
	return inbound.Update{ChatID: chat, MessageID: msgID, Media: &inbound.Media{FileID: fileID, Kind: media.KindPhoto}}
}

func videoMsg(fileID string, msgID int) inbound.Update {
	return inbound.Update{ChatID: chat, MessageID: msgID, Media: &inbound.Media{FileID: fileID, Kind: media.KindVideo}}
}

func press(t *testing.T, raw string) inbound.Update {
	t.Helper()
	d, err := callback.Decode(raw)
	if err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return inbound.Update{ChatID: chat, MessageID: 55, CallbackID: "cb", CallbackData: raw, Callback: &d}
}

// keyboardPayloads flattens the callback data of an inline keyboard
func keyboardPayloads(kb *tgbotapi.InlineKeyboardMarkup) []string {
	if kb == nil {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func dispatch(t *testing.T, h *Handler, updates ...inbound.Update) {
	t.Helper()
	for _, u := range updates {
		if !h.Dispatch(context.Background(), u) {
			t.Fatalf("update %+v was not consumed by a session", u)
		}
	}
}

func step(h *Handler) StepID {
	if s := h.GetManager().Get(chat); s != nil {
		return s.Step
	}
	return ""
}
