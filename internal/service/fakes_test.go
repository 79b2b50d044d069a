package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/repository"
)

type fakeExerciseRepo struct {
	items []domain.ExerciseTemplate
	err   error
}

func (f *fakeExerciseRepo) Search(_ context.Context, filter repository.TemplateFilter, page repository.Page) ([]domain.ExerciseTemplate, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []domain.ExerciseTemplate
	for _, ex := range f.items {
		if strings.Contains(strings.ToLower(ex.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, ex)
		}
	}
	return window(matched, page), int64(len(matched)), nil
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

func (f *fakeExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.ExerciseTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ExerciseTemplate
	for _, id := range ids {
		for _, ex := range f.items {
			if ex.ID == id {
				out = append(out, ex)
			}
		}
	}
	return out, nil
}

type fakeWorkoutRepo struct {
	items []domain.WorkoutTemplate
}

func (f *fakeWorkoutRepo) Search(_ context.Context, filter repository.TemplateFilter, page repository.Page) ([]domain.WorkoutTemplate, int64, error) {
	var matched []domain.WorkoutTemplate
	for _, w := range f.items {
		if strings.Contains(strings.ToLower(w.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, w.Header())
		}
	}
	return window(matched, page), int64(len(matched)), nil
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

func window[T any](items []T, page repository.Page) []T {
	start := int(page.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type fakeProgramRepo struct {
	mu        sync.Mutex
	records   map[primitive.ObjectID]domain.ProgramRecord
	createErr error
	updateErr error
	creates   int
	updates   int
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{records: make(map[primitive.ObjectID]domain.ProgramRecord)}
}

func (f *fakeProgramRepo) Create(_ context.Context, p *domain.ProgramRecord) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	f.creates++
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	f.records[p.ID] = *p
	return p.ID, nil
}

func (f *fakeProgramRepo) Update(_ context.Context, p *domain.ProgramRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	existing, ok := f.records[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	f.updates++
	existing.ProgramPayload = p.ProgramPayload
	f.records[p.ID] = existing
	return nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeProgramRepo) ListByOwner(_ context.Context, ownerID string, page repository.Page) ([]domain.ProgramRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProgramRecord
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return window(out, page), int64(len(out)), nil
}

func (f *fakeProgramRepo) SetArchiveKey(_ context.Context, id primitive.ObjectID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	rec.ArchiveKey = key
	f.records[id] = rec
	return nil
}

func (f *fakeProgramRepo) put(rec domain.ProgramRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.ID] = rec
}

type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: make(map[string][]byte)}
}

func (f *fakeArchive) PutSnapshot(_ context.Context, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakeArchive) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://archive.test/" + key + "?expires=" + expires.String(), nil
}

func (f *fakeArchive) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}
