// Package callback decodes and encodes inline-button payloads.
//
// Every button the bot renders carries one of these payloads. Decoding
// happens once at the router boundary; anything unrecognised is rejected
// with ErrUnknown instead of falling through to a default handler.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknown is returned for payloads the bot never produces.
var ErrUnknown = errors.New("unknown callback payload")

// Kind tags the payload variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindMainMenu
	KindCancelUpload
	KindConfirmClear
	KindCancelClear
	KindAddParticipant
	KindAddOtherPhoto
	KindAddVideo
	KindBatchOtherPhoto
	KindBatchVideo
	KindSelectEvent
	KindSelectClass
	KindSelectIndividual
	KindSelectCategory
	KindView
	KindPage
	KindBack
)

// Domain names a browsable catalog. Domain tags never contain '_'.
type Domain string

const (
	DomainEvents  Domain = "events"
	DomainClasses Domain = "classes"
	DomainOther   Domain = "other"
	DomainVideos  Domain = "videos"
)

// Domains lists every browsable domain.
var Domains = []Domain{DomainEvents, DomainClasses, DomainOther, DomainVideos}

func (d Domain) valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// Data is a decoded payload. Domain is set for view/page/back, Page for
// page and ID for select and view.
type Data struct {
	Kind   Kind
	Domain Domain
	Page   int
	ID     string
}

var exact = map[string]Kind{
	"main_menu":         KindMainMenu,
	"cancel_upload":     KindCancelUpload,
	"confirm_clear":     KindConfirmClear,
	"cancel_clear":      KindCancelClear,
	"add_participant":   KindAddParticipant,
	"add_other_photo":   KindAddOtherPhoto,
	"add_video":         KindAddVideo,
	"batch_other_photo": KindBatchOtherPhoto,
	"batch_video":       KindBatchVideo,
}

var selectPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"select_event_", KindSelectEvent},
	{"select_class_", KindSelectClass},
	{"select_individual_", KindSelectIndividual},
	{"select_category_", KindSelectCategory},
}

// Decode parses a raw payload.
func Decode(raw string) (Data, error) {
	if k, ok := exact[raw]; ok {
		return Data{Kind: k}, nil
	}

	for _, p := range selectPrefixes {
		if id, ok := strings.CutPrefix(raw, p.prefix); ok {
			if id == "" {
				return Data{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
			}
			return Data{Kind: p.kind, ID: id}, nil
		}
	}

	if rest, ok := strings.CutPrefix(raw, "back_"); ok {
		d := Domain(rest)
		if !d.valid() {
			return Data{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
		}
		return Data{Kind: KindBack, Domain: d}, nil
	}

	if rest, ok := strings.CutPrefix(raw, "view_"); ok {
		d, id, found := strings.Cut(rest, "_")
		if !found || id == "" || !Domain(d).valid() {
			return Data{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
		}
		return Data{Kind: KindView, Domain: Domain(d), ID: id}, nil
	}

	if rest, ok := strings.CutPrefix(raw, "page_"); ok {
		d, num, found := strings.Cut(rest, "_")
		if !found || !Domain(d).valid() {
			return Data{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
		}
		page, err := strconv.Atoi(num)
		if err != nil || page < 0 {
			return Data{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
		}
		return Data{Kind: KindPage, Domain: Domain(d), Page: page}, nil
	}

	return Data{}, fmt.Errorf("%w: %q", ErrUnknown, raw)
}

// Encode renders the payload. It is the inverse of Decode.
func (d Data) Encode() string {
	switch d.Kind {
	case KindSelectEvent:
		return "select_event_" + d.ID
	case KindSelectClass:
		return "select_class_" + d.ID
	case KindSelectIndividual:
		return "select_individual_" + d.ID
	case KindSelectCategory:
		return "select_category_" + d.ID
	case KindView:
		return "view_" + string(d.Domain) + "_" + d.ID
	case KindPage:
		return "page_" + string(d.Domain) + "_" + strconv.Itoa(d.Page)
	case KindBack:
		return "back_" + string(d.Domain)
	}
	for raw, k := range exact {
		if k == d.Kind {
			return raw
		}
	}
	return ""
}

// SceneBound reports whether the payload belongs to an upload dialog and is
// meaningless without an active session.
func (d Data) SceneBound() bool {
	switch d.Kind {
	case KindCancelUpload, KindAddParticipant, KindAddOtherPhoto, KindAddVideo,
		KindBatchOtherPhoto, KindBatchVideo,
		KindSelectEvent, KindSelectClass, KindSelectIndividual, KindSelectCategory:
		return true
	}
	return false
}

// Simple builds a payload without parameters.
func Simple(k Kind) string { return Data{Kind: k}.Encode() }

// Select builds a select_* payload.
func Select(k Kind, id string) string { return Data{Kind: k, ID: id}.Encode() }

// View builds a view_<domain>_<id> payload.
func View(d Domain, id string) string { return Data{Kind: KindView, Domain: d, ID: id}.Encode() }

// Page builds a page_<domain>_<n> payload.
func Page(d Domain, n int) string { return Data{Kind: KindPage, Domain: d, Page: n}.Encode() }

// Back builds a back_<domain> payload.
func Back(d Domain) string { return Data{Kind: KindBack, Domain: d}.Encode() }
