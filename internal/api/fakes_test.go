package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/repository"
)

type fakeExerciseRepo struct {
	items []domain.ExerciseTemplate
}

func (f *fakeExerciseRepo) Search(_ context.Context, filter repository.TemplateFilter, _ repository.Page) ([]domain.ExerciseTemplate, int64, error) {
	var out []domain.ExerciseTemplate
	for _, ex := range f.items {
		if strings.Contains(strings.ToLower(ex.Name), strings.ToLower(filter.Search)) {
			out = append(out, ex)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseTemplate, error) {
	for _, ex := range f.items {
		if ex.ID == id {
			ex := ex
			return &ex, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseTemplate, error) {
	var out []domain.ExerciseTemplate
	for _, id := range ids {
		if ex, err := f.GetByID(ctx, id); err == nil {
			out = append(out, *ex)
		}
	}
	return out, nil
}

type fakeWorkoutRepo struct {
	items []domain.WorkoutTemplate
}

func (f *fakeWorkoutRepo) Search(_ context.Context, filter repository.TemplateFilter, _ repository.Page) ([]domain.WorkoutTemplate, int64, error) {
	var out []domain.WorkoutTemplate
	for _, w := range f.items {
		if strings.Contains(strings.ToLower(w.Name), strings.ToLower(filter.Search)) {
			out = append(out, w.Header())
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	for _, w := range f.items {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeProgramRepo struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]domain.ProgramRecord
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{records: make(map[primitive.ObjectID]domain.ProgramRecord)}
}

func (f *fakeProgramRepo) Create(_ context.Context, program *domain.ProgramRecord) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	program.ID = primitive.NewObjectID()
	program.CreatedAt = time.Now()
	program.UpdatedAt = program.CreatedAt
	f.records[program.ID] = *program
	return program.ID, nil
}

func (f *fakeProgramRepo) Update(_ context.Context, program *domain.ProgramRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[program.ID]; !ok {
		return repository.ErrNotFound
	}
	program.UpdatedAt = time.Now()
	f.records[program.ID] = *program
	return nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &record, nil
}

func (f *fakeProgramRepo) ListByOwner(_ context.Context, ownerID string, _ repository.Page) ([]domain.ProgramRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProgramRecord
	for _, record := range f.records {
		if record.OwnerID == ownerID {
			out = append(out, record)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProgramRepo) SetArchiveKey(_ context.Context, id primitive.ObjectID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	record.ArchiveKey = key
	f.records[id] = record
	return nil
}
