package builder

import (
	"log"

	"alcyxob/program-builder/internal/domain"
)

// Field paths understood by a FormBridge.
const (
	FieldProgram      = ""
	FieldName         = "name"
	FieldDescription  = "description"
	FieldDurationDays = "durationDays"
	FieldRotationDays = "rotationDays"
	FieldStatus       = "status"
	FieldWorkouts     = "allocatedWorkouts"
)

// FormBridge is the external form state the program lives in. The editor
// reads the program through it and writes the whole workout tree back after
// every operation.
type FormBridge interface {
	GetValue(path string) any
	SetValue(path string, value any)
}

// FormState is an in-memory FormBridge holding a single program.
type FormState struct {
	program domain.Program
}

func NewFormState(program domain.Program) *FormState {
	if program.Workouts == nil {
		program.Workouts = []domain.AllocatedWorkout{}
	}
	return &FormState{program: program}
}

func (f *FormState) GetValue(path string) any {
	switch path {
	case FieldProgram:
		return f.program
	case FieldName:
		return f.program.Name
	case FieldDescription:
		return f.program.Description
	case FieldDurationDays:
		return f.program.DurationDays
	case FieldRotationDays:
		return f.program.RotationDays
	case FieldStatus:
		return f.program.Status
	case FieldWorkouts:
		return f.program.Workouts
	default:
		return nil
	}
}

func (f *FormState) SetValue(path string, value any) {
	ok := false
	switch path {
	case FieldProgram:
		var p domain.Program
		if p, ok = value.(domain.Program); ok {
			f.program = p
		}
	case FieldName:
		var name string
		if name, ok = value.(string); ok {
			f.program.Name = name
		}
	case FieldDescription:
		var desc string
		if desc, ok = value.(string); ok {
			f.program.Description = desc
		}
	case FieldDurationDays:
		var days *int
		if days, ok = value.(*int); ok {
			f.program.DurationDays = days
		}
	case FieldRotationDays:
		var days *int
		if days, ok = value.(*int); ok {
			f.program.RotationDays = days
		}
	case FieldStatus:
		var status domain.ProgramStatus
		if status, ok = value.(domain.ProgramStatus); ok {
			f.program.Status = status
		}
	case FieldWorkouts:
		var workouts []domain.AllocatedWorkout
		if workouts, ok = value.([]domain.AllocatedWorkout); ok {
			f.program.Workouts = workouts
		}
	}
	if !ok {
		log.Printf("WARN: form state ignored value %T for field %q", value, path)
	}
}
