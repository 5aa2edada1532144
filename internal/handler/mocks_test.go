package handler

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
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/filestore"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
	reply    *tgbotapi.ReplyKeyboardMarkup
}

type inlineAnswer struct {
	queryID string
	results []interface{}
	cache   int
}

// mockSender records every outgoing action
type mockSender struct {
	messages  []sentMessage
	documents []string
	videos    []string
	deleted   []int
	acks      []string
	inline    []inlineAnswer
}

func (m *mockSender) Send(chatID int64, text string) error {
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (m *mockSender) SendPlain(chatID int64, text string) error {
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (m *mockSender) SendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text, keyboard: &kb})
	return nil
}

func (m *mockSender) SendWithReplyKeyboard(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) error {
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text, reply: &kb})
	return nil
}

func (m *mockSender) SendDocument(chatID int64, fileID string) error {
	m.documents = append(m.documents, fileID)
	return nil
}

func (m *mockSender) SendVideo(chatID int64, fileID string) error {
	m.videos = append(m.videos, fileID)
	return nil
}

func (m *mockSender) DeleteMessage(chatID int64, msgID int) { m.deleted = append(m.deleted, msgID) }

func (m *mockSender) AckCallback(callbackID, text string) error {
	m.acks = append(m.acks, text)
	return nil
}

func (m *mockSender) AnswerInline(queryID string, results []interface{}, cacheSeconds int) error {
	m.inline = append(m.inline, inlineAnswer{queryID: queryID, results: results, cache: cacheSeconds})
	return nil
}

func (m *mockSender) last() sentMessage {
	if len(m.messages) == 0 {
		return sentMessage{}
	}
	return m.messages[len(m.messages)-1]
}

// failingStore fails every call
type failingStore struct{}

var errUnavailable = media.Wrap("query", errors.New("backend unavailable"))

func (failingStore) Append(ctx context.Context, rec media.Record) error { return errUnavailable }
func (failingStore) Query(ctx context.Context, key media.FilterKey, value string, kind media.Kind) ([]string, error) {
	return nil, errUnavailable
}
func (failingStore) DistinctCategories(ctx context.Context, ct media.CategoryType) ([]string, error) {
	return nil, errUnavailable
}
func (failingStore) ClearAll(ctx context.Context) error { return errUnavailable }

const chat = int64(42)

func newDeps(store media.Store) (*Deps, *mockSender) {
	sender := &mockSender{}
	cat := catalog.Default()
	return &Deps{
		Sender:      sender,
		Store:       store,
		Catalog:     cat,
		Browse:      browse.NewResolver(cat, store),
		BotUsername: "festbot",
	}, sender
}

func seededStore(t *testing.T, recs ...media.Record) *filestore.Store {
	t.Helper()
	store := filestore.New("")
	for _, rec := range recs {
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}
	return store
}

func press(t *testing.T, raw string) inbound.Update {
	t.Helper()
	d, err := callback.Decode(raw)
	if err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return inbound.Update{ChatID: chat, UserID: 7, MessageID: 55, CallbackID: "cb", CallbackData: raw, Callback: &d}
}

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
