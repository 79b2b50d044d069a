// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseTemplate is a reusable exercise definition from the library.
// Allocated exercises embed a copy of it as their exerciseRef.
type ExerciseTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	VideoURL    string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Type        string `bson:"type,omitempty" json:"type,omitempty"` // e.g., "strength", "mobility"

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
