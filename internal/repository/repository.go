package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TemplateFilter narrows a template search.
type TemplateFilter struct {
	Search string // Case-insensitive substring of the name
}

// Page selects a window of results. Current is 1-based.
type Page struct {
	Current  int
	PageSize int
}

// Skip is the number of documents before the page.
func (p Page) Skip() int64 {
	if p.Current < 1 {
		return 0
	}
	return int64((p.Current - 1) * p.PageSize)
}

// ExerciseTemplateRepository defines the interface for the exercise library.
type ExerciseTemplateRepository interface {
	Search(ctx context.Context, filter TemplateFilter, page Page) ([]domain.ExerciseTemplate, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseTemplate, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseTemplate, error)
}

// WorkoutTemplateRepository defines the interface for the workout library.
type WorkoutTemplateRepository interface {
	Search(ctx context.Context, filter TemplateFilter, page Page) ([]domain.WorkoutTemplate, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
}

// ProgramRepository defines the interface for saved programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.ProgramRecord) (primitive.ObjectID, error)
	Update(ctx context.Context, program *domain.ProgramRecord) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramRecord, error)
	ListByOwner(ctx context.Context, ownerID string, page Page) ([]domain.ProgramRecord, int64, error)
	SetArchiveKey(ctx context.Context, id primitive.ObjectID, key string) error
}
