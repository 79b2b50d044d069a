package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/repository"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrUnknownTemplateKind = errors.New("unknown template kind")
)

// Paging defaults for template and program listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TemplateKind selects which library a search runs against.
type TemplateKind string

const (
	TemplateWorkouts  TemplateKind = "workouts"
	TemplateExercises TemplateKind = "exercises"
)

// TemplatePage is one page of search results. Only the slice matching the
// searched kind is set.
type TemplatePage struct {
	Workouts  []domain.WorkoutTemplate
	Exercises []domain.ExerciseTemplate
	Total     int64
	Page      repository.Page
}

type TemplateService interface {
	Search(ctx context.Context, kind TemplateKind, filter repository.TemplateFilter, page repository.Page) (*TemplatePage, error)
	GetWorkout(ctx context.Context, id string) (*domain.WorkoutTemplate, error)
	GetExercise(ctx context.Context, id string) (*domain.ExerciseTemplate, error)
	// ResolveExercises looks up many exercises at once, keyed by hex id.
	// Ids that do not exist are simply missing from the result.
	ResolveExercises(ctx context.Context, ids []string) (map[string]domain.ExerciseTemplate, error)
}

// templateService implements the TemplateService interface.
type templateService struct {
	workoutRepo  repository.WorkoutTemplateRepository
	exerciseRepo repository.ExerciseTemplateRepository
	maxPageSize  int
}

// NewTemplateService creates the template lookup. maxPageSize caps the
// page size a caller may ask for.
func NewTemplateService(workoutRepo repository.WorkoutTemplateRepository, exerciseRepo repository.ExerciseTemplateRepository, maxPageSize int) TemplateService {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	return &templateService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		maxPageSize:  maxPageSize,
	}
}

// NormalizePage applies the paging defaults and the size cap.
func NormalizePage(page repository.Page, maxPageSize int) repository.Page {
	if page.Current < 1 {
		page.Current = DefaultPage
	}
	if page.PageSize < 1 {
		page.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 && page.PageSize > maxPageSize {
		page.PageSize = maxPageSize
	}
	return page
}

func (s *templateService) Search(ctx context.Context, kind TemplateKind, filter repository.TemplateFilter, page repository.Page) (*TemplatePage, error) {
	page = NormalizePage(page, s.maxPageSize)
	result := &TemplatePage{Page: page}

	var err error
	switch kind {
	case TemplateWorkouts:
		result.Workouts, result.Total, err = s.workoutRepo.Search(ctx, filter, page)
	case TemplateExercises:
		result.Exercises, result.Total, err = s.exerciseRepo.Search(ctx, filter, page)
	default:
		return nil, ErrUnknownTemplateKind
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *templateService) GetWorkout(ctx context.Context, id string) (*domain.WorkoutTemplate, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	workout, err := s.workoutRepo.GetByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *templateService) GetExercise(ctx context.Context, id string) (*domain.ExerciseTemplate, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *templateService) ResolveExercises(ctx context.Context, ids []string) (map[string]domain.ExerciseTemplate, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, dup := seen[objID]; dup {
			continue
		}
		seen[objID] = struct{}{}
		objIDs = append(objIDs, objID)
	}

	exercises, err := s.exerciseRepo.GetByIDs(ctx, objIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ExerciseTemplate, len(exercises))
	for _, ex := range exercises {
		out[ex.ID.Hex()] = ex
	}
	return out, nil
}
