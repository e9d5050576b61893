package predict

import (
	"fmt"
	"math"

	"github.com/applynowhq/admissions-backend/internal/models"
)

// Fallback is the deterministic offline estimator, used whenever no remote
// reasoning service is configured. GPA contributes up to 60 points; the test
// score up to 40 for SAT/ACT and up to 30 for non-standard tests. Identical
// input always yields identical output.
func Fallback(academic models.AcademicInfo) models.PredictionResult {
	gpaScore := math.Min(academic.GPA, 4.0) / 4.0 * 60

	var testScore float64
	switch academic.TestType {
	case models.TestTypeSAT:
		testScore = math.Min(float64(academic.TestScore), 1600) / 1600 * 40
	case models.TestTypeACT:
		testScore = math.Min(float64(academic.TestScore), 36) / 36 * 40
	default:
		testScore = math.Min(float64(academic.TestScore), 100) / 100 * 30
	}

	total := gpaScore + testScore

	category := models.ChanceLow
	if total > 85 {
		category = models.ChanceHigh
	} else if total > 65 {
		category = models.ChanceModerate
	}

	// Cap at 99: the heuristic never promises certainty.
	probability := int(math.Round(total))
	if probability > 99 {
		probability = 99
	}

	reasoning := fmt.Sprintf("Rule-based estimate: calculated from GPA %.2f and %s score %d.",
		academic.GPA, academic.TestType, academic.TestScore)
	if academic.TestType == models.TestTypeOther {
		reasoning += " Standardized test score impact is reduced for non-standard formats."
	}

	return models.PredictionResult{
		Probability: probability,
		Category:    category,
		Reasoning:   reasoning,
	}
}
