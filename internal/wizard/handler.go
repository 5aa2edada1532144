package wizard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// Handler runs scenes: it owns the session store, feeds updates to the
// current step and applies the returned transition.
type Handler struct {
	manager  *Manager
	scenes   map[SceneID]*Scene
	sender   telegram.MessageSender
	observer Observer
}

// NewHandler creates a Handler with the add-media, batch-add and
// batch-category scenes.
func NewHandler(deps *StepDeps) *Handler {
	return newHandler(NewManager(), deps.Sender, deps.observer(),
		addMediaScene(deps),
		batchAddScene(deps),
		batchCategoryScene(deps),
	)
}

func newHandler(m *Manager, sender telegram.MessageSender, obs Observer, scenes ...*Scene) *Handler {
	h := &Handler{
		manager:  m,
		scenes:   make(map[SceneID]*Scene, len(scenes)),
		sender:   sender,
		observer: obs,
	}
	for _, sc := range scenes {
		h.scenes[sc.ID] = sc
	}
	return h
}

// GetManager returns the session store
func (h *Handler) GetManager() *Manager {
	return h.manager
}

// Active reports whether the chat has a session.
func (h *Handler) Active(chatID int64) bool {
	return h.manager.Get(chatID) != nil
}

// Start creates a session for the scene, replacing any existing one, and
// runs the first step immediately.
func (h *Handler) Start(ctx context.Context, chatID int64, id SceneID) error {
	scene, ok := h.scenes[id]
	if !ok || scene.First() == "" {
		return fmt.Errorf("%w: unknown scene %q", ErrContract, id)
	}
	s := h.manager.Start(chatID, id, scene.First())
	h.observer.ObserveSessions(h.manager.Len())
	slog.Info("Scene entered", "chat_id", chatID, "scene", id)

	h.run(ctx, scene, s, inbound.Update{ChatID: chatID})
	return nil
}

// Dispatch feeds an update to the chat's current step. It returns false
// when the chat has no session.
func (h *Handler) Dispatch(ctx context.Context, u inbound.Update) bool {
	s := h.manager.Get(u.ChatID)
	if s == nil {
		return false
	}
	scene, ok := h.scenes[s.Scene]
	if !ok || !scene.has(s.Step) {
		h.violation(s, fmt.Errorf("%w: session at %s/%s", ErrContract, s.Scene, s.Step))
		return true
	}
	h.run(ctx, scene, s, u)
	return true
}

// Cancel ends the chat's session. A callback cancel also removes the
// message that carried the button.
func (h *Handler) Cancel(ctx context.Context, u inbound.Update) bool {
	s := h.manager.Get(u.ChatID)
	if s == nil {
		return false
	}
	text := "Upload cancelled."
	if u.IsCallback() {
		h.sender.DeleteMessage(u.ChatID, u.MessageID)
		text = "Upload cancelled. To start adding, click /add, /batchadd, or /batchcategory"
	}
	h.leave(s, "cancelled")
	h.sender.SendPlain(u.ChatID, text)
	return true
}

func (h *Handler) run(ctx context.Context, scene *Scene, s *Session, u inbound.Update) {
	step := s.Step
	next := scene.steps[step](ctx, s, u)
	slog.Debug("Wizard step", "chat_id", s.ChatID, "scene", scene.ID, "step", step, "next", next.String())
	h.apply(scene, s, next)
}

func (h *Handler) apply(scene *Scene, s *Session, next Next) {
	switch next.action {
	case actAdvance:
		target, ok := scene.after(s.Step)
		if !ok {
			h.violation(s, fmt.Errorf("%w: advance past last step %s", ErrContract, s.Step))
			return
		}
		s.Step = target
	case actJump:
		if !scene.has(next.target) {
			h.violation(s, fmt.Errorf("%w: jump to unknown step %q", ErrContract, next.target))
			return
		}
		s.Step = next.target
	case actRepeat:
	case actLeave:
		h.leave(s, "done")
	}
}

// violation ends a session whose scene broke the engine contract.
func (h *Handler) violation(s *Session, err error) {
	slog.Error("Wizard contract violation", "chat_id", s.ChatID, "scene", s.Scene, "step", s.Step, "error", err)
	h.leave(s, "contract")
	h.sender.SendPlain(s.ChatID, "❌ An unexpected error occurred. Please start over.")
}

func (h *Handler) leave(s *Session, reason string) {
	if h.manager.clearIf(s) {
		slog.Info("Scene left", "chat_id", s.ChatID, "scene", s.Scene, "reason", reason)
	}
	h.observer.ObserveSessions(h.manager.Len())
}
