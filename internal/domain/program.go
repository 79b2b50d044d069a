package domain

// ProgramStatus tracks the publishing lifecycle of a program.
type ProgramStatus string

const (
	StatusDraft     ProgramStatus = "draft"
	StatusPublished ProgramStatus = "published"
	StatusArchived  ProgramStatus = "archived"
)

// Valid reports whether s is a known status.
func (s ProgramStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Defaults applied to a brand new program.
const (
	DefaultDurationDays = 28
	DefaultRotationDays = 7
)

// SetType says how a set's value is measured.
type SetType string

const (
	SetTypeReps     SetType = "REPS"
	SetTypeDuration SetType = "DURATION" // value is in seconds
)

// Valid reports whether t is a known set type.
func (t SetType) Valid() bool {
	return t == SetTypeReps || t == SetTypeDuration
}

// Program is the root of the editing tree.
type Program struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	DurationDays *int               `json:"durationDays,omitempty"`
	RotationDays *int               `json:"rotationDays,omitempty"`
	Status       ProgramStatus      `json:"status"`
	Workouts     []AllocatedWorkout `json:"allocatedWorkouts"`
}

// NewProgram returns an empty program with the default schedule.
func NewProgram() Program {
	duration, rotation := DefaultDurationDays, DefaultRotationDays
	return Program{
		DurationDays: &duration,
		RotationDays: &rotation,
		Status:       StatusDraft,
		Workouts:     []AllocatedWorkout{},
	}
}

// AllocatedWorkout is a workout template instance attached to a program.
type AllocatedWorkout struct {
	ID         string              `json:"id"`
	Order      int                 `json:"order"`
	WorkoutRef WorkoutTemplate     `json:"workoutRef"`
	Note       string              `json:"note,omitempty"`
	Exercises  []AllocatedExercise `json:"allocatedExercises"`
}

// AllocatedExercise is an exercise template instance inside a workout.
// ExerciseRefID, TotalDuration and TotalDurationText are derived and are
// refreshed every time the tree is snapshotted.
type AllocatedExercise struct {
	ID                string           `json:"id"`
	Order             int              `json:"order"`
	ExerciseRef       ExerciseTemplate `json:"exerciseRef"`
	ExerciseRefID     string           `json:"exerciseRefId"`
	Notes             string           `json:"notes,omitempty"`
	Sets              []Set            `json:"sets"`
	TotalDuration     float64          `json:"totalDuration"`
	TotalDurationText string           `json:"totalDurationText"`
}

// Set is a single leaf of the tree.
type Set struct {
	ID        string   `bson:"-" json:"id"`
	SetNumber int      `bson:"-" json:"setNumber,omitempty"`
	Type      SetType  `bson:"type" json:"type"`
	Value     float64  `bson:"value" json:"value"`
	BreakTime *float64 `bson:"breakTime,omitempty" json:"breakTime,omitempty"`
}
