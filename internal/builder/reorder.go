package builder

// RootContainerID names the program's workout list as a drop container.
const RootContainerID = "program"

// DragEvent is a finished drag gesture. Container ids name the list the
// dragged node came from and the list it was dropped into; the target may
// be a sibling item or the container itself.
type DragEvent struct {
	DraggedID          string `json:"draggedId"`
	DraggedContainerID string `json:"draggedContainerId"`
	TargetID           string `json:"targetId"`
	TargetContainerID  string `json:"targetContainerId"`
}

// MoveKind classifies what a drag turned into.
type MoveKind string

const (
	MoveNone     MoveKind = "none"
	MoveReorder  MoveKind = "reorder"
	MoveTransfer MoveKind = "transfer"
)

// MovePlan is the store mutation a drag resolves to.
type MovePlan struct {
	Kind         MoveKind
	Source       Path
	TargetParent Path
	TargetIndex  int
}

// ReorderEngine turns drag events into store moves.
type ReorderEngine struct {
	store *Store
}

func NewReorderEngine(store *Store) *ReorderEngine {
	return &ReorderEngine{store: store}
}

// Plan resolves ev against the current tree without changing it.
//
// The tree is authoritative: the dragged node and the target are located by
// id, and container ids from the event are only used when the drop landed
// on an empty container area (no target id). A drop on a sibling takes the
// sibling's current index; within one list the node is removed first and
// inserted at that index, so moving forward and backward share one path. A
// drop on a container appends.
func (e *ReorderEngine) Plan(ev DragEvent) (MovePlan, error) {
	noop := MovePlan{Kind: MoveNone}
	if ev.DraggedID == "" || ev.DraggedID == ev.TargetID {
		return noop, nil
	}
	source, ok := e.store.Locate(ev.DraggedID)
	if !ok {
		return noop, nil
	}

	targetID := ev.TargetID
	if targetID == "" {
		targetID = ev.TargetContainerID
	}
	if targetID == "" || targetID == ev.DraggedID {
		return noop, nil
	}

	var target Path
	if targetID == RootContainerID {
		target = Root
	} else if target, ok = e.store.Locate(targetID); !ok {
		return noop, nil
	}

	plan := MovePlan{Source: source}
	switch target.Kind() {
	case source.Kind():
		plan.TargetParent = target.Parent()
		plan.TargetIndex = e.store.IndexOf(target)
	case source.Kind() - 1:
		plan.TargetParent = target
		plan.TargetIndex = Append
	default:
		return noop, TypeMismatchError{Node: source.Kind(), Parent: target.Kind()}
	}

	if plan.TargetParent == source.Parent() {
		current := e.store.IndexOf(source)
		last := e.store.ChildCount(plan.TargetParent) - 1
		if plan.TargetIndex == current || (plan.TargetIndex == Append && current == last) {
			return noop, nil
		}
		plan.Kind = MoveReorder
	} else {
		plan.Kind = MoveTransfer
	}
	return plan, nil
}

// Apply plans ev and performs the resulting move. A no-op plan leaves the
// store untouched.
func (e *ReorderEngine) Apply(ev DragEvent) (MovePlan, error) {
	plan, err := e.Plan(ev)
	if err != nil || plan.Kind == MoveNone {
		return plan, err
	}
	if err := e.store.Move(plan.Source, plan.TargetParent, plan.TargetIndex); err != nil {
		return MovePlan{Kind: MoveNone}, err
	}
	return plan, nil
}
