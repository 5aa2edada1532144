package bot

import (
	"context"
	"log/slog"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/callback"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/handler"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/wizard"
)

const msgNoPermission = "⛔ You don't have permission."

// MenuRouterHandler defines methods for the menu and fixed replies
type MenuRouterHandler interface {
	HandleStart(u inbound.Update)
	HandleHelp(u inbound.Update)
	HandleMainMenu(u inbound.Update)
	HandleIndividuals(u inbound.Update)
	HandleNothingToCancel(u inbound.Update)
	HandleStale(u inbound.Update)
	HandleUnknownCallback(u inbound.Update)
	HandleFallback(u inbound.Update)
}

// BrowseRouterHandler defines methods for catalog browsing
type BrowseRouterHandler interface {
	HandleDomain(ctx context.Context, u inbound.Update, d callback.Domain)
	HandleView(ctx context.Context, u inbound.Update)
	HandlePage(ctx context.Context, u inbound.Update)
	HandleBack(ctx context.Context, u inbound.Update)
}

// IndividualsRouterHandler defines methods for individual search
type IndividualsRouterHandler interface {
	HandleInline(u inbound.Update)
	HandleViewIndividual(ctx context.Context, u inbound.Update)
}

// AdminRouterHandler defines methods for admin-only actions
type AdminRouterHandler interface {
	HandleClearSheet(u inbound.Update)
	HandleConfirmClear(ctx context.Context, u inbound.Update)
	HandleCancelClear(u inbound.Update)
}

// WizardRouterHandler defines methods for upload scenes
type WizardRouterHandler interface {
	Start(ctx context.Context, chatID int64, id wizard.SceneID) error
	Dispatch(ctx context.Context, u inbound.Update) bool
	Cancel(ctx context.Context, u inbound.Update) bool
	Active(chatID int64) bool
}

var sceneCommands = map[string]wizard.SceneID{
	wizard.SceneAddMedia.Command():      wizard.SceneAddMedia,
	wizard.SceneBatchAdd.Command():      wizard.SceneBatchAdd,
	wizard.SceneBatchCategory.Command(): wizard.SceneBatchCategory,
}

var menuDomains = map[string]callback.Domain{
	handler.LabelEvents:  callback.DomainEvents,
	handler.LabelClasses: callback.DomainClasses,
	handler.LabelOther:   callback.DomainOther,
	handler.LabelVideos:  callback.DomainVideos,
}

// Router routes updates to the appropriate handlers. While a chat has an
// upload session, only that session sees the chat's updates.
type Router struct {
	auth        *Auth
	sender      telegram.MessageSender
	menu        MenuRouterHandler
	browse      BrowseRouterHandler
	individuals IndividualsRouterHandler
	admin       AdminRouterHandler
	wizard      WizardRouterHandler
}

// NewRouter creates a new Router with all handlers
func NewRouter(
	auth *Auth,
	sender telegram.MessageSender,
	menu MenuRouterHandler,
	browse BrowseRouterHandler,
	individuals IndividualsRouterHandler,
	admin AdminRouterHandler,
	wizard WizardRouterHandler,
) *Router {
	return &Router{
		auth:        auth,
		sender:      sender,
		menu:        menu,
		browse:      browse,
		individuals: individuals,
		admin:       admin,
		wizard:      wizard,
	}
}

// Route handles one update
func (r *Router) Route(ctx context.Context, u inbound.Update) {
	if u.Inline != nil {
		r.individuals.HandleInline(u)
		return
	}

	if r.wizard.Active(u.ChatID) {
		r.routeSession(ctx, u)
		return
	}

	switch {
	case u.IsCallback():
		r.routeCallback(ctx, u)
	case u.IsCommand():
		r.routeCommand(ctx, u)
	case u.IsText():
		r.routeText(ctx, u)
	default:
		r.menu.HandleFallback(u)
	}
}

func (r *Router) routeSession(ctx context.Context, u inbound.Update) {
	if u.IsCallback() {
		r.sender.AckCallback(u.CallbackID, "")
	}
	if u.Command == "cancel" || u.CallbackIs(callback.KindCancelUpload) {
		r.wizard.Cancel(ctx, u)
		return
	}
	// Entering a scene again replaces the current session.
	if scene, ok := sceneCommands[u.Command]; ok {
		r.enterScene(ctx, u, scene)
		return
	}
	r.wizard.Dispatch(ctx, u)
}

func (r *Router) enterScene(ctx context.Context, u inbound.Update, scene wizard.SceneID) {
	if !r.authorize(u) {
		return
	}
	if err := r.wizard.Start(ctx, u.ChatID, scene); err != nil {
		slog.Error("Failed to start scene", "chat_id", u.ChatID, "scene", scene, "error", err)
	}
}

func (r *Router) routeCommand(ctx context.Context, u inbound.Update) {
	if scene, ok := sceneCommands[u.Command]; ok {
		r.enterScene(ctx, u, scene)
		return
	}

	switch u.Command {
	case "start":
		r.menu.HandleStart(u)
	case "help":
		r.menu.HandleHelp(u)
	case "cancel", "stop":
		r.menu.HandleNothingToCancel(u)
	case "clearsheet":
		if r.authorize(u) {
			r.admin.HandleClearSheet(u)
		}
	case "view_individual":
		r.individuals.HandleViewIndividual(ctx, u)
	default:
		r.menu.HandleFallback(u)
	}
}

func (r *Router) routeCallback(ctx context.Context, u inbound.Update) {
	if u.Callback == nil {
		slog.Warn("Unknown callback payload", "chat_id", u.ChatID, "data", u.CallbackData)
		r.menu.HandleUnknownCallback(u)
		return
	}
	if u.Callback.SceneBound() {
		r.menu.HandleStale(u)
		return
	}

	switch u.Callback.Kind {
	case callback.KindMainMenu:
		r.menu.HandleMainMenu(u)
	case callback.KindView:
		r.browse.HandleView(ctx, u)
	case callback.KindPage:
		r.browse.HandlePage(ctx, u)
	case callback.KindBack:
		r.browse.HandleBack(ctx, u)
	case callback.KindConfirmClear:
		if !r.authorize(u) {
			r.sender.AckCallback(u.CallbackID, "")
			return
		}
		r.admin.HandleConfirmClear(ctx, u)
	case callback.KindCancelClear:
		r.admin.HandleCancelClear(u)
	default:
		r.menu.HandleUnknownCallback(u)
	}
}

func (r *Router) routeText(ctx context.Context, u inbound.Update) {
	if d, ok := menuDomains[u.Text]; ok {
		r.browse.HandleDomain(ctx, u, d)
		return
	}
	if u.Text == handler.LabelIndividuals {
		r.menu.HandleIndividuals(u)
		return
	}
	r.menu.HandleFallback(u)
}

// authorize replies with a rejection when the caller is not an admin.
func (r *Router) authorize(u inbound.Update) bool {
	if r.auth.IsAdmin(u.UserID, u.Username) {
		return true
	}
	slog.Warn("Unauthorized admin action", "user_id", u.UserID, "username", u.Username, "command", u.Command, "callback", u.CallbackData)
	r.sender.SendPlain(u.ChatID, msgNoPermission)
	return false
}
