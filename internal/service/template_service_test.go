package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/repository"
)

func exerciseLibrary(names ...string) []domain.ExerciseTemplate {
	out := make([]domain.ExerciseTemplate, 0, len(names))
	for _, name := range names {
		out = append(out, domain.ExerciseTemplate{ID: primitive.NewObjectID(), Name: name})
	}
	return out
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		in   repository.Page
		want repository.Page
	}{
		{in: repository.Page{}, want: repository.Page{Current: 1, PageSize: 20}},
		{in: repository.Page{Current: 3, PageSize: 10}, want: repository.Page{Current: 3, PageSize: 10}},
		{in: repository.Page{Current: -1, PageSize: 500}, want: repository.Page{Current: 1, PageSize: 100}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePage(tt.in, MaxPageSize))
	}
}

func TestTemplateService_Search(t *testing.T) {
	exercises := &fakeExerciseRepo{items: exerciseLibrary("Back Squat", "Front Squat", "Bench Press")}
	workouts := &fakeWorkoutRepo{items: []domain.WorkoutTemplate{{ID: primitive.NewObjectID(), Name: "Leg Day"}}}
	svc := NewTemplateService(workouts, exercises, 50)

	page, err := svc.Search(context.Background(), TemplateExercises, repository.TemplateFilter{Search: "squat"}, repository.Page{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, repository.Page{Current: 1, PageSize: 1}, page.Page)
	require.Len(t, page.Exercises, 1)
	assert.Equal(t, "Back Squat", page.Exercises[0].Name)
	assert.Nil(t, page.Workouts)

	page, err = svc.Search(context.Background(), TemplateWorkouts, repository.TemplateFilter{}, repository.Page{PageSize: 999})
	require.NoError(t, err)
	assert.Equal(t, 50, page.Page.PageSize)
	assert.Len(t, page.Workouts, 1)

	_, err = svc.Search(context.Background(), "plans", repository.TemplateFilter{}, repository.Page{})
	assert.ErrorIs(t, err, ErrUnknownTemplateKind)

	exercises.err = errors.New("db down")
	_, err = svc.Search(context.Background(), TemplateExercises, repository.TemplateFilter{}, repository.Page{})
	assert.EqualError(t, err, "db down")
}

func TestTemplateService_Get(t *testing.T) {
	lib := exerciseLibrary("Deadlift")
	svc := NewTemplateService(&fakeWorkoutRepo{}, &fakeExerciseRepo{items: lib}, 0)

	got, err := svc.GetExercise(context.Background(), lib[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Deadlift", got.Name)

	_, err = svc.GetExercise(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	_, err = svc.GetExercise(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	_, err = svc.GetWorkout(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateService_ResolveExercises(t *testing.T) {
	lib := exerciseLibrary("Row", "Press")
	svc := NewTemplateService(&fakeWorkoutRepo{}, &fakeExerciseRepo{items: lib}, 0)
	missing := primitive.NewObjectID().Hex()

	got, err := svc.ResolveExercises(context.Background(), []string{lib[0].ID.Hex(), lib[0].ID.Hex(), "garbage", missing, lib[1].ID.Hex()})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Row", got[lib[0].ID.Hex()].Name)
	assert.Equal(t, "Press", got[lib[1].ID.Hex()].Name)
	_, ok := got[missing]
	assert.False(t, ok)
}
