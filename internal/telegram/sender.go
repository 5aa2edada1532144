package telegram

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the interface for Telegram bot API operations
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MessageSender defines the interface for sending Telegram messages
type MessageSender interface {
	Send(chatID int64, text string) error
	SendPlain(chatID int64, text string) error
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	SendWithReplyKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error
	SendDocument(chatID int64, fileID string) error
	SendVideo(chatID int64, fileID string) error
	DeleteMessage(chatID int64, msgID int)
	AckCallback(callbackID, text string) error
	AnswerInline(queryID string, results []interface{}, cacheSeconds int) error
}

// Sender implements MessageSender using Telegram Bot API
type Sender struct {
	api BotAPI
}

// NewSender creates a new Sender
func NewSender(api BotAPI) *Sender {
	return &Sender{api: api}
}

// Send sends a MarkdownV2 formatted message
func (s *Sender) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "MarkdownV2"
	return s.send(chatID, msg, "Failed to send message")
}

// SendPlain sends a plain text message without formatting
func (s *Sender) SendPlain(chatID int64, text string) error {
	return s.send(chatID, tgbotapi.NewMessage(chatID, text), "Failed to send message")
}

// SendWithKeyboard sends a plain text message with an inline keyboard
func (s *Sender) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.send(chatID, msg, "Failed to send message with keyboard")
}

// SendWithReplyKeyboard sends a plain text message that replaces the
// user's reply keyboard
func (s *Sender) SendWithReplyKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.send(chatID, msg, "Failed to send message with reply keyboard")
}

// SendDocument re-sends a stored photo by file id as a document
func (s *Sender) SendDocument(chatID int64, fileID string) error {
	return s.send(chatID, tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID)), "Failed to send document")
}

// SendVideo re-sends a stored video by file id
func (s *Sender) SendVideo(chatID int64, fileID string) error {
	return s.send(chatID, tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID)), "Failed to send video")
}

func (s *Sender) send(chatID int64, c tgbotapi.Chattable, failure string) error {
	_, err := s.api.Send(c)
	if err != nil {
		slog.Error(failure, "chat_id", chatID, "error", err)
	}
	return err
}

// DeleteMessage deletes a message. Failures are logged and ignored, the
// message may already be gone or too old to delete.
func (s *Sender) DeleteMessage(chatID int64, msgID int) {
	if msgID == 0 {
		return
	}
	if _, err := s.api.Request(tgbotapi.NewDeleteMessage(chatID, msgID)); err != nil {
		slog.Debug("Failed to delete message", "chat_id", chatID, "msg_id", msgID, "error", err)
	}
}

// AckCallback acknowledges a callback query, optionally with a toast text
func (s *Sender) AckCallback(callbackID, text string) error {
	_, err := s.api.Request(tgbotapi.NewCallback(callbackID, text))
	if err != nil {
		slog.Error("Failed to acknowledge callback", "error", err)
	}
	return err
}

// AnswerInline answers an inline query
func (s *Sender) AnswerInline(queryID string, results []interface{}, cacheSeconds int) error {
	if results == nil {
		results = []interface{}{}
	}
	_, err := s.api.Request(tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     cacheSeconds,
	})
	if err != nil {
		slog.Error("Failed to answer inline query", "query_id", queryID, "error", err)
	}
	return err
}
