package builder

import (
	"fmt"
	"math"
	"strconv"

	"alcyxob/program-builder/internal/domain"
)

// TotalDuration is the estimated running time of an exercise in seconds:
// every set counts its value twice plus its break.
func TotalDuration(sets []domain.Set) float64 {
	total := 0.0
	for _, set := range sets {
		total += set.Value * 2
		if set.BreakTime != nil {
			total += *set.BreakTime
		}
	}
	return total
}

// FormatDuration renders seconds as "N seconds" below a minute and as
// "M min S sec" from a minute up.
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return formatNumber(seconds) + " seconds"
	}
	minutes := math.Floor(seconds / 60)
	rest := seconds - minutes*60
	return fmt.Sprintf("%d min %s sec", int64(minutes), formatNumber(rest))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
