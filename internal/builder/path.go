package builder

import "strings"

// NodeKind identifies a level of the program tree.
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindWorkout
	KindExercise
	KindSet
)

func (k NodeKind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindWorkout:
		return "workout"
	case KindExercise:
		return "exercise"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// Path addresses a node by the ids of itself and its ancestors. The zero
// Path is the program root.
type Path struct {
	WorkoutID  string
	ExerciseID string
	SetID      string
}

// Root is the program root.
var Root = Path{}

func WorkoutPath(workoutID string) Path {
	return Path{WorkoutID: workoutID}
}

func ExercisePath(workoutID, exerciseID string) Path {
	return Path{WorkoutID: workoutID, ExerciseID: exerciseID}
}

func SetPath(workoutID, exerciseID, setID string) Path {
	return Path{WorkoutID: workoutID, ExerciseID: exerciseID, SetID: setID}
}

// Kind is the kind of the deepest node the path names.
func (p Path) Kind() NodeKind {
	switch {
	case p.SetID != "":
		return KindSet
	case p.ExerciseID != "":
		return KindExercise
	case p.WorkoutID != "":
		return KindWorkout
	default:
		return KindProgram
	}
}

// Leaf is the id of the deepest node, empty for the root.
func (p Path) Leaf() string {
	switch p.Kind() {
	case KindSet:
		return p.SetID
	case KindExercise:
		return p.ExerciseID
	case KindWorkout:
		return p.WorkoutID
	default:
		return ""
	}
}

// Parent drops the deepest id.
func (p Path) Parent() Path {
	switch p.Kind() {
	case KindSet:
		return ExercisePath(p.WorkoutID, p.ExerciseID)
	case KindExercise:
		return WorkoutPath(p.WorkoutID)
	default:
		return Root
	}
}

// wellFormed rejects paths with gaps such as a set id without an exercise id.
func (p Path) wellFormed() bool {
	if p.SetID != "" && p.ExerciseID == "" {
		return false
	}
	if p.ExerciseID != "" && p.WorkoutID == "" {
		return false
	}
	return true
}

func (p Path) String() string {
	parts := []string{"program"}
	for _, id := range []string{p.WorkoutID, p.ExerciseID, p.SetID} {
		if id == "" {
			break
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, "/")
}
