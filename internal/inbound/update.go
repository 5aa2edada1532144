// Package inbound converts Telegram updates into the transport-neutral
// shape consumed by the router, handlers and wizard steps.
package inbound

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// Media is an attachment carried by a message.
type Media struct {
	FileID string
	Kind   media.Kind
}

// InlineQuery is a cross-chat search request.
type InlineQuery struct {
	ID    string
	Query string
}

// Update is one inbound event. Exactly one of Command, Text, Media,
// CallbackID or Inline is meaningful for a given update.
type Update struct {
	ChatID    int64
	UserID    int64
	Username  string
	MessageID int

	Command string // without the leading slash
	Args    string
	Text    string
	Media   *Media

	CallbackID   string
	CallbackData string
	// Callback is nil when CallbackData could not be decoded.
	Callback *callback.Data

	Inline *InlineQuery
}

// IsCallback reports whether the update is a button press.
func (u Update) IsCallback() bool { return u.CallbackID != "" }

// IsCommand reports whether the update is a slash command.
func (u Update) IsCommand() bool { return u.Command != "" }

// IsText reports whether the update is a plain text message.
func (u Update) IsText() bool { return u.Command == "" && u.Text != "" && u.CallbackID == "" }

// CallbackIs reports whether the update is a decoded callback of kind k.
func (u Update) CallbackIs(k callback.Kind) bool {
	return u.Callback != nil && u.Callback.Kind == k
}

// FromTelegram converts a Telegram update. It returns false for updates
// without a sender or of a type the bot does not handle.
func FromTelegram(tu tgbotapi.Update) (Update, bool) {
	switch {
	case tu.Message != nil:
		return fromMessage(tu.Message)
	case tu.CallbackQuery != nil:
		return fromCallback(tu.CallbackQuery)
	case tu.InlineQuery != nil:
		q := tu.InlineQuery
		if q.From == nil {
			return Update{}, false
		}
		return Update{
			UserID:   q.From.ID,
			Username: q.From.UserName,
			Inline:   &InlineQuery{ID: q.ID, Query: q.Query},
		}, true
	}
	return Update{}, false
}

func fromMessage(msg *tgbotapi.Message) (Update, bool) {
	// Channel posts and service messages have no sender
	if msg.From == nil || msg.Chat == nil {
		return Update{}, false
	}
	u := Update{
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Username:  msg.From.UserName,
		MessageID: msg.MessageID,
	}
	if msg.IsCommand() {
		u.Command = strings.ToLower(msg.Command())
		u.Args = strings.TrimSpace(msg.CommandArguments())
		return u, true
	}
	u.Text = msg.Text
	u.Media = extractMedia(msg)
	return u, true
}

func fromCallback(cb *tgbotapi.CallbackQuery) (Update, bool) {
	// Inline-mode callbacks have no message to reply to
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return Update{}, false
	}
	u := Update{
		ChatID:       cb.Message.Chat.ID,
		UserID:       cb.From.ID,
		Username:     cb.From.UserName,
		MessageID:    cb.Message.MessageID,
		CallbackID:   cb.ID,
		CallbackData: cb.Data,
	}
	if d, err := callback.Decode(cb.Data); err == nil {
		u.Callback = &d
	}
	return u, true
}

// extractMedia picks the largest photo size, an image document or a video.
func extractMedia(msg *tgbotapi.Message) *Media {
	if n := len(msg.Photo); n > 0 {
		return &Media{FileID: msg.Photo[n-1].FileID, Kind: media.KindPhoto}
	}
	if doc := msg.Document; doc != nil && strings.HasPrefix(doc.MimeType, "image") {
		return &Media{FileID: doc.FileID, Kind: media.KindPhoto}
	}
	if msg.Video != nil {
		return &Media{FileID: msg.Video.FileID, Kind: media.KindVideo}
	}
	return nil
}
