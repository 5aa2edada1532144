package wizard

import (
	"context"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/browse"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/catalog"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/inbound"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// StepID names a state within a scene.
type StepID string

const (
	StepPromptMedia      StepID = "prompt_media"
	StepReceiveMedia     StepID = "receive_media"
	StepChooseBranch     StepID = "choose_branch"
	StepPromptEvent      StepID = "prompt_event"
	StepSelectEvent      StepID = "select_event"
	StepSelectClass      StepID = "select_class"
	StepSelectIndividual StepID = "select_individual"
	StepPromptKind       StepID = "prompt_kind"
	StepChooseKind       StepID = "choose_kind"
	StepSelectCategory   StepID = "select_category"
	StepListening        StepID = "listening"
)

type action int

const (
	actAdvance action = iota
	actJump
	actRepeat
	actLeave
)

// Next is the transition a step returns.
type Next struct {
	action action
	target StepID
}

// Advance moves to the following step of the scene.
func Advance() Next { return Next{action: actAdvance} }

// JumpTo moves to a named step, skipping the steps in between.
func JumpTo(step StepID) Next { return Next{action: actJump, target: step} }

// Repeat keeps the session on the current step.
func Repeat() Next { return Next{action: actRepeat} }

// Leave ends the session.
func Leave() Next { return Next{action: actLeave} }

func (n Next) String() string {
	switch n.action {
	case actAdvance:
		return "advance"
	case actJump:
		return "jump:" + string(n.target)
	case actRepeat:
		return "repeat"
	case actLeave:
		return "leave"
	}
	return "unknown"
}

// StepFunc consumes one update for the session and returns the transition.
// On scene entry the first step runs with an update that carries only the
// chat id.
type StepFunc func(ctx context.Context, s *Session, u inbound.Update) Next

// Observer receives wizard events for metrics.
type Observer interface {
	ObserveSessions(active int)
	ObserveSaved(ct media.CategoryType)
}

type nopObserver struct{}

func (nopObserver) ObserveSessions(int)             {}
func (nopObserver) ObserveSaved(media.CategoryType) {}

// StepDeps holds dependencies for step handlers
type StepDeps struct {
	Sender   telegram.MessageSender
	Store    media.Store
	Catalog  *catalog.Catalog
	Browse   *browse.Resolver
	Observer Observer
}

func (d *StepDeps) observer() Observer {
	if d.Observer == nil {
		return nopObserver{}
	}
	return d.Observer
}
