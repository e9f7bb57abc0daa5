// Package confidence converts raw relevance scores into discrete
// confidence levels.
package confidence

import (
	"github.com/ethanolivertroy/ctrlmap/internal/bm25"
)

// Level is a discrete confidence label for one control mapping.
type Level string

const (
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

// Thresholds partition the normalized score range. A score is normalized
// against the maximum of its own vector, then classified High when it
// exceeds Thresholds.High, Medium when it exceeds Thresholds.Medium, and
// Low otherwise. Raw BM25 magnitudes depend on corpus and query length, so
// only this relative form is comparable across services.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds matches the calibrated pipeline cutoffs.
var DefaultThresholds = Thresholds{High: 0.7, Medium: 0.4}

// Classify maps every score in the vector to a level. A vector with no
// positive score classifies everything Low; zero overlap is a valid
// degenerate state, not an error.
func Classify(scores []bm25.Score, t Thresholds) map[string]Level {
	var max float64
	for _, s := range scores {
		if s.Value > max {
			max = s.Value
		}
	}

	levels := make(map[string]Level, len(scores))
	for _, s := range scores {
		if max == 0 {
			levels[s.ControlID] = Low
			continue
		}
		levels[s.ControlID] = classifyNormalized(s.Value/max, t)
	}
	return levels
}

func classifyNormalized(norm float64, t Thresholds) Level {
	switch {
	case norm > t.High:
		return High
	case norm > t.Medium:
		return Medium
	default:
		return Low
	}
}

// Rank orders levels for display and enhancement priority: High sorts
// before Medium before Low.
func (l Level) Rank() int {
	switch l {
	case High:
		return 0
	case Medium:
		return 1
	default:
		return 2
	}
}
