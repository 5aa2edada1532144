package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/config"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/filestore"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/wizard"
)

// syncSender records replies from lane goroutines
type syncSender struct {
	routerSender
	mu sync.Mutex
}

func (m *syncSender) SendPlain(chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routerSender.SendPlain(chatID, text)
}

func (m *syncSender) replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.plain...)
}

type countingUpdates struct {
	mu    sync.Mutex
	kinds map[string]int
}

func (c *countingUpdates) ObserveUpdate(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kinds == nil {
		c.kinds = make(map[string]int)
	}
	c.kinds[kind]++
}

func newTestBot(t *testing.T, opts ...Option) (*Bot, *syncSender) {
	t.Helper()
	cfg := &config.Config{Admins: []string{"100"}, MaxConcurrentUpdates: 4, PageSize: 8}
	sender := &syncSender{}
	b := newBot(cfg, catalog.Default(), filestore.New(""), sender, "festbot", "test", opts...)
	b.Start(context.Background())
	t.Cleanup(b.Stop)
	return b, sender
}

func commandUpdate(userID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Text:      text,
		From:      &tgbotapi.User{ID: userID, UserName: "user"},
		Chat:      &tgbotapi.Chat{ID: userID},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		Text:      text,
		From:      &tgbotapi.User{ID: userID, UserName: "user"},
		Chat:      &tgbotapi.Chat{ID: userID},
	}}
}

func waitIdle(t *testing.T, b *Bot) {
	t.Helper()
	if !b.queue.WaitIdle(2 * time.Second) {
		t.Fatal("updates were not processed in time")
	}
}

func TestBot_NonAdminCannotEnterScene(t *testing.T) {
	b, sender := newTestBot(t)

	b.HandleUpdate(commandUpdate(guestID, "/add"))
	waitIdle(t, b)

	if b.wizard.Active(guestID) {
		t.Error("non-admin must not get a session")
	}
	replies := sender.replies()
	if len(replies) != 1 || replies[0] != msgNoPermission {
		t.Errorf("expected rejection, got %v", replies)
	}
}

func TestBot_AdminEntersScene(t *testing.T) {
	b, _ := newTestBot(t)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	waitIdle(t, b)

	s := b.wizard.GetManager().Get(adminID)
	if s == nil {
		t.Fatal("admin should have a session")
	}
	if s.Scene != wizard.SceneAddMedia || s.Step != wizard.StepReceiveMedia {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestBot_MenuTextDuringSessionGoesToScene(t *testing.T) {
	b, sender := newTestBot(t)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "🏅 Events"))
	waitIdle(t, b)

	replies := sender.replies()
	if len(replies) != 2 || replies[1] != "That was not a valid photo or video. Please send one, or /cancel." {
		t.Errorf("unexpected replies %v", replies)
	}

	b.HandleUpdate(commandUpdate(adminID, "/cancel"))
	waitIdle(t, b)
	if b.wizard.Active(adminID) {
		t.Error("session should be cancelled")
	}
}

func TestBot_SkipsUpdatesWithoutSender(t *testing.T) {
	obs := &countingUpdates{}
	b, sender := newTestBot(t, WithUpdateObserver(obs))

	b.HandleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{Text: "channel post", Chat: &tgbotapi.Chat{ID: 5}}})
	b.HandleUpdate(textUpdate(guestID, "hello"))
	waitIdle(t, b)

	if obs.kinds["text"] != 1 || len(obs.kinds) != 1 {
		t.Errorf("unexpected observed kinds %v", obs.kinds)
	}
	if replies := sender.replies(); len(replies) != 1 {
		t.Errorf("expected one fallback reply, got %v", replies)
	}
}

func TestBot_SceneCommandReplacesSession(t *testing.T) {
	b, _ := newTestBot(t)

	b.HandleUpdate(commandUpdate(adminID, "/batchadd"))
	b.HandleUpdate(commandUpdate(adminID, "/add"))
	waitIdle(t, b)

	s := b.wizard.GetManager().Get(adminID)
	if s == nil {
		t.Fatal("admin should have a session")
	}
	if s.Scene != wizard.SceneAddMedia || s.Step != wizard.StepReceiveMedia {
		t.Errorf("second scene command should replace the session, got %+v", s)
	}
}

func TestBot_FullLaneRepliesBusy(t *testing.T) {
	b, sender := newTestBot(t)

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	if err := b.queue.Enqueue(adminID, func(ctx context.Context) {
		close(started)
		<-release
	}); err != nil {
		t.Fatal(err)
	}
	<-started

	for {
		if err := b.queue.Enqueue(adminID, func(ctx context.Context) {}); err != nil {
			break
		}
	}
	b.HandleUpdate(textUpdate(adminID, "hello"))

	replies := sender.replies()
	if len(replies) != 1 || replies[0] != msgBusy {
		t.Errorf("expected busy reply, got %v", replies)
	}
}

func TestUpdateKind(t *testing.T) {
	tests := []struct {
		name string
		u    inbound.Update
		want string
	}{
		{"inline", inbound.Update{Inline: &inbound.InlineQuery{ID: "1"}}, "inline"},
		{"callback", inbound.Update{CallbackID: "1"}, "callback"},
		{"command", inbound.Update{Command: "start"}, "command"},
		{"media", inbound.Update{Media: &inbound.Media{FileID: "f", Kind: media.KindPhoto}}, "media"},
		{"text", inbound.Update{Text: "hi"}, "text"},
		{"other", inbound.Update{}, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := updateKind(tt.u); got != tt.want {
				t.Errorf("updateKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name string
		u    inbound.Update
		want string
	}{
		{"no args", inbound.Update{Command: "start"}, "/start"},
		{"id argument kept", inbound.Update{Command: "view_individual", Args: "I_1001"}, "/view_individual I_1001"},
		{"other arguments redacted", inbound.Update{Command: "add", Args: "secret"}, "/add [REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeCommand(tt.u); got != tt.want {
				t.Errorf("sanitizeCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
