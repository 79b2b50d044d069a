package builder

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "program_builder",
		Name:      "operations_total",
		Help:      "Editor operations by operation and result.",
	}, []string{"op", "result"})

	dragOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "program_builder",
		Name:      "drag_outcomes_total",
		Help:      "Drag events by resolved move kind.",
	}, []string{"kind"})
)

// resultLabel maps an operation error to a low-cardinality label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	default:
		return "error"
	}
}
