package wizard

// SceneID names a guided dialog.
type SceneID string

const (
	SceneAddMedia      SceneID = "add-media"
	SceneBatchAdd      SceneID = "batch-add"
	SceneBatchCategory SceneID = "batch-category"
)

// Command returns the slash command that enters the scene.
func (id SceneID) Command() string {
	switch id {
	case SceneAddMedia:
		return "add"
	case SceneBatchAdd:
		return "batchadd"
	case SceneBatchCategory:
		return "batchcategory"
	}
	return ""
}

// Scene is an ordered list of named steps.
type Scene struct {
	ID    SceneID
	order []StepID
	steps map[StepID]StepFunc
}

// NewScene creates an empty scene.
func NewScene(id SceneID) *Scene {
	return &Scene{ID: id, steps: make(map[StepID]StepFunc)}
}

// Step appends a step. Step ids must be unique within a scene.
func (sc *Scene) Step(id StepID, fn StepFunc) *Scene {
	if _, dup := sc.steps[id]; dup {
		panic("wizard: duplicate step " + string(id) + " in scene " + string(sc.ID))
	}
	sc.order = append(sc.order, id)
	sc.steps[id] = fn
	return sc
}

// First returns the entry step.
func (sc *Scene) First() StepID {
	if len(sc.order) == 0 {
		return ""
	}
	return sc.order[0]
}

// Steps returns the step ids in order.
func (sc *Scene) Steps() []StepID {
	return append([]StepID(nil), sc.order...)
}

func (sc *Scene) has(id StepID) bool {
	_, ok := sc.steps[id]
	return ok
}

// after returns the step following id.
func (sc *Scene) after(id StepID) (StepID, bool) {
	for i, s := range sc.order {
		if s == id && i+1 < len(sc.order) {
			return sc.order[i+1], true
		}
	}
	return "", false
}
