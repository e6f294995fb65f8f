package retrieval

import "github.com/sells-group/guideline/internal/model"

// Confidence thresholds on best distance. The prototype's original pair
// (0.25 / 0.5) is used throughout; keep these in sync with the tests.
const (
	highThreshold   = 0.25
	mediumThreshold = 0.5
)

// ConfidenceFromDistance maps a best distance to a confidence label.
// Smaller distance is better.
func ConfidenceFromDistance(best float64) model.Confidence {
	switch {
	case best <= highThreshold:
		return model.ConfidenceHigh
	case best <= mediumThreshold:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
