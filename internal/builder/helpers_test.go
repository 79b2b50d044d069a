package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/domain"
)

type seqIDs struct {
	n int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func testIdentity() *Identity {
	return NewIdentityWithSource(&seqIDs{})
}

func exerciseTpl(name string) domain.ExerciseTemplate {
	return domain.ExerciseTemplate{ID: primitive.NewObjectID(), Name: name}
}

func workoutTpl(name string, exercises ...domain.WorkoutTemplateExercise) domain.WorkoutTemplate {
	return domain.WorkoutTemplate{ID: primitive.NewObjectID(), Name: name, Exercises: exercises}
}

func ptr[T any](v T) *T { return &v }

func reps(id string, value, breakTime float64) domain.Set {
	return domain.Set{ID: id, Type: domain.SetTypeReps, Value: value, BreakTime: ptr(breakTime)}
}

// seedWorkouts is Day 1 {Squat [s1 s2], Bench [s3]} and Day 2 {Deadlift [s4]}.
func seedWorkouts() []domain.AllocatedWorkout {
	return []domain.AllocatedWorkout{
		{
			ID: "w1", Order: 1, WorkoutRef: domain.WorkoutTemplate{Name: "Day 1"},
			Exercises: []domain.AllocatedExercise{
				{ID: "squat", Order: 1, ExerciseRef: exerciseTpl("Squat"), Sets: []domain.Set{reps("s1", 10, 60), reps("s2", 8, 90)}},
				{ID: "bench", Order: 2, ExerciseRef: exerciseTpl("Bench"), Sets: []domain.Set{reps("s3", 5, 120)}},
			},
		},
		{
			ID: "w2", Order: 2, WorkoutRef: domain.WorkoutTemplate{Name: "Day 2"},
			Exercises: []domain.AllocatedExercise{
				{ID: "deadlift", Order: 1, ExerciseRef: exerciseTpl("Deadlift"), Sets: []domain.Set{reps("s4", 5, 0)}},
			},
		},
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(testIdentity())
	require.NoError(t, s.Load(seedWorkouts()))
	return s
}

// requireContiguous checks that every sibling group is ordered 1..n.
func requireContiguous(t *testing.T, workouts []domain.AllocatedWorkout) {
	t.Helper()
	for i, w := range workouts {
		require.Equal(t, i+1, w.Order, "workout %s", w.ID)
		for j, ex := range w.Exercises {
			require.Equal(t, j+1, ex.Order, "exercise %s", ex.ID)
			require.Equal(t, ex.ExerciseRef.ID.Hex(), ex.ExerciseRefID)
			for k, set := range ex.Sets {
				require.Equal(t, k+1, set.SetNumber, "set %s", set.ID)
			}
		}
	}
}

// requireSelectionValid checks that both pointers are empty or resolve, and
// that the exercise pointer sits under the workout pointer.
func requireSelectionValid(t *testing.T, tree Tree, sel Selection) {
	t.Helper()
	if sel.WorkoutID != "" {
		require.True(t, tree.HasWorkout(sel.WorkoutID), "dangling workout %s", sel.WorkoutID)
	}
	if sel.ExerciseID != "" {
		parent, ok := tree.ExerciseParent(sel.ExerciseID)
		require.True(t, ok, "dangling exercise %s", sel.ExerciseID)
		require.Equal(t, sel.WorkoutID, parent)
	}
}
