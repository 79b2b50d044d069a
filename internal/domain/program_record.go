// internal/domain/program_record.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramPayload is the shape submitted on save. It is also the body of the
// stored program document and of the archived JSON snapshot.
type ProgramPayload struct {
	Name              string           `bson:"name" json:"name" validate:"required"`
	Description       string           `bson:"description" json:"description"`
	DurationDays      *int             `bson:"durationDays,omitempty" json:"durationDays" validate:"omitempty,gt=0"`
	RotationDays      *int             `bson:"rotationDays,omitempty" json:"rotationDays" validate:"omitempty,gt=0"`
	Status            ProgramStatus    `bson:"status" json:"status" validate:"required,oneof=draft published archived"`
	AllocatedWorkouts []WorkoutPayload `bson:"allocatedWorkouts" json:"allocatedWorkouts" validate:"dive"`
}

type WorkoutPayload struct {
	WorkoutID          string            `bson:"workoutId" json:"workoutId"`
	Name               string            `bson:"name" json:"name"`
	Note               string            `bson:"note" json:"note"`
	Order              int               `bson:"order" json:"order" validate:"gte=1"`
	AllocatedExercises []ExercisePayload `bson:"allocatedExercises" json:"allocatedExercises" validate:"dive"`
}

type ExercisePayload struct {
	ExerciseID string       `bson:"exerciseId" json:"exerciseId" validate:"required"`
	Sets       []SetPayload `bson:"sets" json:"sets" validate:"dive"`
	Order      int          `bson:"order" json:"order" validate:"gte=1"`
	Notes      string       `bson:"notes" json:"notes"`
}

type SetPayload struct {
	Type      SetType  `bson:"type" json:"type" validate:"oneof=REPS DURATION"`
	Value     float64  `bson:"value" json:"value" validate:"gte=0"`
	BreakTime *float64 `bson:"breakTime,omitempty" json:"breakTime" validate:"omitempty,gte=0"`
}

// ProgramRecord is a saved program as stored in MongoDB.
type ProgramRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID        string             `bson:"ownerId" json:"ownerId"` // Subject of the token that saved it
	ProgramPayload `bson:",inline"`
	ArchiveKey     string    `bson:"archiveKey,omitempty" json:"-"` // Key of the latest JSON snapshot in S3
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
