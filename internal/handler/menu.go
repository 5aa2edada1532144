package handler

import (
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// Reply keyboard labels of the main menu. The router matches incoming text
// against these exactly.
const (
	LabelEvents      = "🏅 Events"
	LabelClasses     = "🎓 Classes"
	LabelIndividuals = "👤 Individuals"
	LabelOther       = "📸 Other Photos"
	LabelVideos      = "🎬 Videos"
)

const mainMenuText = "Welcome! 🏅 Select a category to view photos:"

// MenuHandler handles the main menu and other fixed replies
type MenuHandler struct {
	deps *Deps
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(deps *Deps) *MenuHandler {
	return &MenuHandler{deps: deps}
}

func (h *MenuHandler) sendMenu(chatID int64) {
	h.deps.Sender.SendWithReplyKeyboard(chatID, mainMenuText, telegram.ReplyKeyboard(
		[]string{LabelEvents, LabelClasses},
		[]string{LabelIndividuals, LabelOther},
		[]string{LabelVideos},
	))
}

// HandleStart handles /start command
func (h *MenuHandler) HandleStart(u inbound.Update) {
	h.sendMenu(u.ChatID)
}

// HandleMainMenu handles the main_menu callback
func (h *MenuHandler) HandleMainMenu(u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.DeleteMessage(u.ChatID, u.MessageID)
	h.sendMenu(u.ChatID)
}

// HandleHelp handles /help command
func (h *MenuHandler) HandleHelp(u inbound.Update) {
	text := `*PMSA Fest Media Bot*

Browse:
/start \- main menu
/view\_individual \<id\> \- photos of one person

Admins:
/add \- add one photo or video
/batchadd \- add many photos of one participant
/batchcategory \- add many photos or videos to a category
/cancel \- cancel the current upload
/stop \- finish batch mode
/clearsheet \- delete all media records`

	if h.deps.Version != "" {
		text += "\n\n" + telegram.EscapeMarkdownV2("Version: "+h.deps.Version)
	}
	h.deps.Sender.Send(u.ChatID, text)
}

// HandleIndividuals explains inline search for individuals
func (h *MenuHandler) HandleIndividuals(u inbound.Update) {
	username := h.deps.BotUsername
	if username == "" {
		username = "YourBotUsername"
	}
	h.deps.Sender.SendPlain(u.ChatID,
		"To search for an individual, please type a part of their name in the chat.\n\n"+
			"For example, type: @"+username+" Ajmel\n\n"+
			"You can do this in this chat, or in any other chat!")
}

// HandleNothingToCancel handles /cancel outside an upload
func (h *MenuHandler) HandleNothingToCancel(u inbound.Update) {
	h.deps.Sender.SendPlain(u.ChatID, "Nothing to cancel.")
}

// HandleStale handles upload buttons pressed after their session ended
func (h *MenuHandler) HandleStale(u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "")
	h.deps.Sender.SendPlain(u.ChatID,
		"This upload session is no longer active. Start again with /add, /batchadd or /batchcategory.")
}

// HandleUnknownCallback acknowledges a payload the bot never produces
func (h *MenuHandler) HandleUnknownCallback(u inbound.Update) {
	h.deps.Sender.AckCallback(u.CallbackID, "This button is no longer supported.")
}

// HandleFallback handles text, media and commands nothing else claimed
func (h *MenuHandler) HandleFallback(u inbound.Update) {
	if u.IsCommand() {
		h.deps.Sender.SendPlain(u.ChatID, "Unknown command. Use /start to open the menu or /help for the command list.")
		return
	}
	h.deps.Sender.SendPlain(u.ChatID, "Use /start to open the menu.")
}
