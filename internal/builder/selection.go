package builder

// Tree is the read view the selection controller checks its pointers against.
type Tree interface {
	WorkoutIDs() []string
	ExerciseIDs(workoutID string) []string
	HasWorkout(id string) bool
	ExerciseParent(exerciseID string) (string, bool)
}

// Selection is the pair of selected node ids. Empty means nothing selected.
type Selection struct {
	WorkoutID  string `json:"workoutId,omitempty"`
	ExerciseID string `json:"exerciseId,omitempty"`
}

// SelectionController tracks the selected workout and exercise. Pointers are
// kept by id, never by index, and are re-checked after structural changes.
type SelectionController struct {
	selectFirst bool
	current     Selection
}

// NewSelectionController returns a controller with nothing selected.
// selectFirst enables picking the first workout/exercise on load and when a
// selected node disappears.
func NewSelectionController(selectFirst bool) *SelectionController {
	return &SelectionController{selectFirst: selectFirst}
}

func (c *SelectionController) Current() Selection {
	return c.current
}

// Reset applies the load rule: stale pointers are dropped and, with
// selectFirst, an empty pointer falls back to the first node by order,
// cascading from workout to exercise.
func (c *SelectionController) Reset(tree Tree) {
	if c.current.WorkoutID != "" && !tree.HasWorkout(c.current.WorkoutID) {
		c.current = Selection{}
	}
	if c.current.WorkoutID == "" {
		c.current.ExerciseID = ""
		if !c.selectFirst {
			return
		}
		ids := tree.WorkoutIDs()
		if len(ids) == 0 {
			return
		}
		c.current.WorkoutID = ids[0]
	}
	c.checkExercise(tree, c.selectFirst)
}

// Revalidate runs after any structural mutation. Nothing is auto-selected
// unless a selected node no longer exists.
func (c *SelectionController) Revalidate(tree Tree) {
	if c.current.WorkoutID != "" && !tree.HasWorkout(c.current.WorkoutID) {
		c.current = Selection{}
		c.Reset(tree)
		return
	}
	if c.current.ExerciseID == "" {
		return
	}
	c.checkExercise(tree, c.selectFirst)
}

// checkExercise keeps the exercise pointer consistent with the workout
// pointer. A selected exercise that moved to another workout drags the
// workout pointer along with it.
func (c *SelectionController) checkExercise(tree Tree, fallbackFirst bool) {
	if id := c.current.ExerciseID; id != "" {
		if parent, ok := tree.ExerciseParent(id); ok {
			c.current.WorkoutID = parent
			return
		}
		c.current.ExerciseID = ""
	}
	if fallbackFirst && c.current.WorkoutID != "" {
		if ids := tree.ExerciseIDs(c.current.WorkoutID); len(ids) > 0 {
			c.current.ExerciseID = ids[0]
		}
	}
}

// WorkoutAdded selects the new workout when none is selected yet, cascading
// to its first exercise.
func (c *SelectionController) WorkoutAdded(tree Tree, workoutID string) {
	if c.current.WorkoutID != "" {
		return
	}
	c.current = Selection{WorkoutID: workoutID}
	if ids := tree.ExerciseIDs(workoutID); len(ids) > 0 {
		c.current.ExerciseID = ids[0]
	}
}

// ExerciseAdded selects an exercise added to the selected workout.
func (c *SelectionController) ExerciseAdded(_ Tree, workoutID, exerciseID string) {
	if c.current.WorkoutID == workoutID {
		c.current.ExerciseID = exerciseID
	}
}

// WorkoutDeleted clears both pointers when the selected workout goes.
func (c *SelectionController) WorkoutDeleted(tree Tree, workoutID string) {
	if c.current.WorkoutID == workoutID {
		c.current = Selection{}
		return
	}
	c.Revalidate(tree)
}

// ExerciseDeleted clears only the exercise pointer.
func (c *SelectionController) ExerciseDeleted(tree Tree, exerciseID string) {
	if c.current.ExerciseID == exerciseID {
		c.current.ExerciseID = ""
		return
	}
	c.Revalidate(tree)
}

// SelectWorkout points at a workout. An empty id clears the selection.
func (c *SelectionController) SelectWorkout(tree Tree, workoutID string) error {
	if workoutID == "" {
		c.current = Selection{}
		return nil
	}
	if !tree.HasWorkout(workoutID) {
		return NotFoundError{Kind: KindWorkout, ID: workoutID}
	}
	if c.current.WorkoutID == workoutID {
		return nil
	}
	c.current = Selection{WorkoutID: workoutID}
	c.checkExercise(tree, c.selectFirst)
	return nil
}

// SelectExercise points at an exercise and its workout. An empty id clears
// only the exercise pointer.
func (c *SelectionController) SelectExercise(tree Tree, exerciseID string) error {
	if exerciseID == "" {
		c.current.ExerciseID = ""
		return nil
	}
	parent, ok := tree.ExerciseParent(exerciseID)
	if !ok {
		return NotFoundError{Kind: KindExercise, ID: exerciseID}
	}
	c.current = Selection{WorkoutID: parent, ExerciseID: exerciseID}
	return nil
}
