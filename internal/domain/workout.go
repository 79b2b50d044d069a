package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplate is a reusable workout definition. Adding it to a program
// copies its exercises (with their sets) into the new allocated workout.
type WorkoutTemplate struct {
	ID          primitive.ObjectID        `bson:"_id,omitempty" json:"id"`
	Name        string                    `bson:"name" json:"name"` // e.g., "Day 1: Upper Body"
	Description string                    `bson:"description,omitempty" json:"description,omitempty"`
	Exercises   []WorkoutTemplateExercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
	CreatedAt   time.Time                 `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time                 `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutTemplateExercise is one exercise slot inside a workout template.
// The exercise is always stored as an embedded snapshot.
type WorkoutTemplateExercise struct {
	Exercise ExerciseTemplate `bson:"exercise" json:"exercise"`
	Sets     []Set            `bson:"sets,omitempty" json:"sets,omitempty"`
	Order    int              `bson:"order" json:"order"`
}

// Header returns the template without its exercise list, which is what an
// allocated workout keeps as its workoutRef.
func (w WorkoutTemplate) Header() WorkoutTemplate {
	w.Exercises = nil
	return w
}
