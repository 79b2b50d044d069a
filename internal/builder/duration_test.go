package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/program-builder/internal/domain"
)

func TestTotalDuration(t *testing.T) {
	tests := []struct {
		name string
		sets []domain.Set
		want float64
	}{
		{name: "no sets", sets: nil, want: 0},
		{name: "single set", sets: []domain.Set{reps("", 10, 5)}, want: 25},
		{name: "missing break", sets: []domain.Set{{Type: domain.SetTypeDuration, Value: 30}}, want: 60},
		{name: "several", sets: []domain.Set{reps("", 12, 60), reps("", 10, 90)}, want: 84 + 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalDuration(tt.sets))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0 seconds"},
		{25, "25 seconds"},
		{59.5, "59.5 seconds"},
		{60, "1 min 0 sec"},
		{84, "1 min 24 sec"},
		{125, "2 min 5 sec"},
		{3600, "60 min 0 sec"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds))
	}
}

func TestDuration_AppendThenRemoveRestores(t *testing.T) {
	s := seededStore(t)
	before, _ := s.Exercise("squat")

	path, err := s.Insert(ExercisePath("w1", "squat"), reps("", 15, 45), Append)
	require.NoError(t, err)
	grown, _ := s.Exercise("squat")
	assert.Equal(t, before.TotalDuration+15*2+45, grown.TotalDuration)

	require.NoError(t, s.Remove(path))
	after, _ := s.Exercise("squat")
	assert.Equal(t, before.TotalDuration, after.TotalDuration)
	assert.Equal(t, before.TotalDurationText, after.TotalDurationText)
}
