package catalog

import (
	"math"

	"github.com/stepherg/rigtune"
)

// halfWeight is the share of the score carried by each collection. An empty
// half (no recommended settings, or no bloatware) counts as fully satisfied
// at this midpoint value.
const halfWeight = 50.0

// Score computes the 0-100 optimization score: half from the fraction of
// recommended settings enabled, half from the fraction of bloatware disabled.
// Ties round up.
func Score(programs []rigtune.StartupProgram, settings []rigtune.OptimizationSetting) int {
	var recommended, recommendedOn int
	for _, s := range settings {
		if !s.Recommended {
			continue
		}
		recommended++
		if s.Enabled {
			recommendedOn++
		}
	}
	var bloat, bloatOff int
	for _, p := range programs {
		if p.Category != rigtune.CategoryBloatware {
			continue
		}
		bloat++
		if !p.Enabled {
			bloatOff++
		}
	}
	return int(math.Floor(fraction(recommendedOn, recommended) + fraction(bloatOff, bloat) + 0.5))
}

func fraction(n, total int) float64 {
	if total == 0 {
		return halfWeight
	}
	return float64(n) / float64(total) * halfWeight
}
