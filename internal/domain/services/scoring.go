package services

import (
	"math"

	"github.com/troml/dev-status/internal/domain/entities"
)

// Score weighting: core items carry up to 80 points, extra credit up to
// 20, capped at 100 overall.
const (
	coreWeight  = 80.0
	extraWeight = 20.0
	maxScore    = 100
)

// ComputeReadmeScore computes the overall 0-100 README score. Items
// marked "na" are excluded from the core denominator; the extra
// denominator is always the full EXTRA set.
func ComputeReadmeScore(results []entities.RubricItem) int {
	var coreTotal, corePassed, extraPassed int
	for _, item := range results {
		if rubricIsCore(item.ID) {
			if item.Status == entities.RubricNA {
				continue
			}
			coreTotal++
			if item.Status == entities.RubricPass {
				corePassed++
			}
		} else {
			if item.Status == entities.RubricPass {
				extraPassed++
			}
		}
	}

	var score float64
	if coreTotal > 0 {
		score += float64(corePassed) / float64(coreTotal) * coreWeight
	}
	if len(RubricExtra) > 0 {
		score += float64(extraPassed) / float64(len(RubricExtra)) * extraWeight
	}

	total := int(math.Round(score))
	if total > maxScore {
		total = maxScore
	}
	return total
}

// QualLabel maps a numeric score to its qualitative label.
func QualLabel(score int) string {
	switch {
	case score < 40:
		return "Problematic"
	case score < 70:
		return "Needs Improvement"
	case score < 90:
		return "Good"
	default:
		return "Excellent"
	}
}
