package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionCorruption means a save was attempted with required
	// session fields missing.
	ErrSessionCorruption = errors.New("session corruption")
	// ErrContract means a scene returned an impossible transition.
	ErrContract = errors.New("wizard contract violation")
)

// CorruptionError lists the fields missing at save time.
type CorruptionError struct {
	Scene   SceneID
	Missing []string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("%v in %s: missing %s", ErrSessionCorruption, e.Scene, strings.Join(e.Missing, ", "))
}

func (e *CorruptionError) Is(target error) bool { return target == ErrSessionCorruption }

// Session field names checked before a save.
const (
	fieldFile         = "media_file_id"
	fieldKind         = "media_type"
	fieldCategoryType = "category_type"
	fieldEvent        = "event"
	fieldClass        = "class"
	fieldIndividual   = "individual"
	fieldCategory     = "media_category"
)

// guard returns a *CorruptionError when any of fields is unset.
func guard(s *Session, fields ...string) error {
	var missing []string
	for _, f := range fields {
		var ok bool
		switch f {
		case fieldFile:
			ok = s.FileID != ""
		case fieldKind:
			ok = s.Kind != ""
		case fieldCategoryType:
			ok = s.CategoryType != ""
		case fieldEvent:
			ok = s.Event != nil
		case fieldClass:
			ok = s.Class != nil
		case fieldIndividual:
			ok = s.Individual != nil
		case fieldCategory:
			ok = s.Category != ""
		}
		if !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &CorruptionError{Scene: s.Scene, Missing: missing}
	}
	return nil
}
