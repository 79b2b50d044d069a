package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorder_Apply(t *testing.T) {
	tests := []struct {
		name     string
		event    DragEvent
		kind     MoveKind
		workouts []string
		w1       []string
		w2       []string
	}{
		{
			name:     "exercise backward within workout",
			event:    DragEvent{DraggedID: "bench", DraggedContainerID: "w1", TargetID: "squat", TargetContainerID: "w1"},
			kind:     MoveReorder,
			workouts: []string{"w1", "w2"},
			w1:       []string{"bench", "squat"},
			w2:       []string{"deadlift"},
		},
		{
			name:     "exercise forward within workout",
			event:    DragEvent{DraggedID: "squat", DraggedContainerID: "w1", TargetID: "bench", TargetContainerID: "w1"},
			kind:     MoveReorder,
			workouts: []string{"w1", "w2"},
			w1:       []string{"bench", "squat"},
			w2:       []string{"deadlift"},
		},
		{
			name:     "workouts",
			event:    DragEvent{DraggedID: "w2", DraggedContainerID: RootContainerID, TargetID: "w1", TargetContainerID: RootContainerID},
			kind:     MoveReorder,
			workouts: []string{"w2", "w1"},
			w1:       []string{"squat", "bench"},
			w2:       []string{"deadlift"},
		},
		{
			name:     "workout onto program container",
			event:    DragEvent{DraggedID: "w1", TargetContainerID: RootContainerID},
			kind:     MoveReorder,
			workouts: []string{"w2", "w1"},
			w1:       []string{"squat", "bench"},
			w2:       []string{"deadlift"},
		},
		{
			name:     "exercise onto sibling in other workout",
			event:    DragEvent{DraggedID: "bench", DraggedContainerID: "w1", TargetID: "deadlift", TargetContainerID: "w2"},
			kind:     MoveTransfer,
			workouts: []string{"w1", "w2"},
			w1:       []string{"squat"},
			w2:       []string{"bench", "deadlift"},
		},
		{
			name:     "exercise onto other workout",
			event:    DragEvent{DraggedID: "bench", DraggedContainerID: "w1", TargetID: "w2", TargetContainerID: RootContainerID},
			kind:     MoveTransfer,
			workouts: []string{"w1", "w2"},
			w1:       []string{"squat"},
			w2:       []string{"deadlift", "bench"},
		},
		{
			name:     "exercise onto empty container area",
			event:    DragEvent{DraggedID: "squat", DraggedContainerID: "w1", TargetContainerID: "w2"},
			kind:     MoveTransfer,
			workouts: []string{"w1", "w2"},
			w1:       []string{"bench"},
			w2:       []string{"deadlift", "squat"},
		},
		{
			name:     "exercise onto own workout",
			event:    DragEvent{DraggedID: "squat", TargetID: "w1"},
			kind:     MoveReorder,
			workouts: []string{"w1", "w2"},
			w1:       []string{"bench", "squat"},
			w2:       []string{"deadlift"},
		},
		{
			name:     "stale container ids are ignored",
			event:    DragEvent{DraggedID: "bench", DraggedContainerID: "w2", TargetID: "squat", TargetContainerID: "w2"},
			kind:     MoveReorder,
			workouts: []string{"w1", "w2"},
			w1:       []string{"bench", "squat"},
			w2:       []string{"deadlift"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(t)
			plan, err := NewReorderEngine(s).Apply(tt.event)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, plan.Kind)
			assert.Equal(t, tt.workouts, s.WorkoutIDs())
			assert.Equal(t, tt.w1, s.ExerciseIDs("w1"))
			assert.Equal(t, tt.w2, s.ExerciseIDs("w2"))
			requireContiguous(t, s.Snapshot())
		})
	}
}

func TestReorder_Sets(t *testing.T) {
	s := seededStore(t)
	engine := NewReorderEngine(s)

	plan, err := engine.Apply(DragEvent{DraggedID: "s2", TargetID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, MoveReorder, plan.Kind)
	assert.Equal(t, []string{"s2", "s1"}, s.SetIDs("squat"))

	plan, err = engine.Apply(DragEvent{DraggedID: "s3", TargetID: "squat"})
	require.NoError(t, err)
	assert.Equal(t, MoveTransfer, plan.Kind)
	assert.Equal(t, []string{"s2", "s1", "s3"}, s.SetIDs("squat"))
	assert.Empty(t, s.SetIDs("bench"))
	requireContiguous(t, s.Snapshot())
}

func TestReorder_NoOps(t *testing.T) {
	tests := []struct {
		name  string
		event DragEvent
	}{
		{name: "onto itself", event: DragEvent{DraggedID: "squat", TargetID: "squat"}},
		{name: "unknown dragged", event: DragEvent{DraggedID: "ghost", TargetID: "squat"}},
		{name: "unknown target", event: DragEvent{DraggedID: "squat", TargetID: "ghost"}},
		{name: "no target", event: DragEvent{DraggedID: "squat"}},
		{name: "empty event", event: DragEvent{}},
		{name: "last onto own container", event: DragEvent{DraggedID: "bench", TargetID: "w1"}},
		{name: "last workout onto program", event: DragEvent{DraggedID: "w2", TargetContainerID: RootContainerID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(t)
			before := s.Snapshot()

			plan, err := NewReorderEngine(s).Apply(tt.event)
			require.NoError(t, err)
			assert.Equal(t, MoveNone, plan.Kind)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestReorder_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		event DragEvent
	}{
		{name: "set onto workout", event: DragEvent{DraggedID: "s1", TargetID: "w2"}},
		{name: "exercise onto program", event: DragEvent{DraggedID: "squat", TargetContainerID: RootContainerID}},
		{name: "workout onto exercise", event: DragEvent{DraggedID: "w1", TargetID: "deadlift"}},
		{name: "exercise onto set", event: DragEvent{DraggedID: "bench", TargetID: "s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(t)
			before := s.Snapshot()

			plan, err := NewReorderEngine(s).Apply(tt.event)
			require.ErrorIs(t, err, ErrTypeMismatch)
			assert.Equal(t, MoveNone, plan.Kind)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestReorder_MoveConservesNodes(t *testing.T) {
	s := seededStore(t)
	count := func() (int, int) {
		exercises, sets := 0, 0
		for _, w := range s.Snapshot() {
			exercises += len(w.Exercises)
			for _, ex := range w.Exercises {
				sets += len(ex.Sets)
			}
		}
		return exercises, sets
	}
	exBefore, setsBefore := count()

	events := []DragEvent{
		{DraggedID: "bench", TargetID: "deadlift"},
		{DraggedID: "squat", TargetID: "w2"},
		{DraggedID: "w2", TargetID: "w1"},
		{DraggedID: "s4", TargetID: "s1"},
		{DraggedID: "deadlift", TargetID: "w1"},
	}
	engine := NewReorderEngine(s)
	for _, ev := range events {
		_, err := engine.Apply(ev)
		require.NoError(t, err)
		requireContiguous(t, s.Snapshot())
	}

	exAfter, setsAfter := count()
	assert.Equal(t, exBefore, exAfter)
	assert.Equal(t, setsBefore, setsAfter)
	assert.Equal(t, []string{"bench", "squat"}, s.ExerciseIDs("w2"))
	assert.Equal(t, []string{"s4", "s1", "s2"}, s.SetIDs("squat"))
	assert.Equal(t, []string{"deadlift"}, s.ExerciseIDs("w1"))
}
