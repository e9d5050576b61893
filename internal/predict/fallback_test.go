package predict

import (
	"testing"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFallback_Scoring(t *testing.T) {
	tests := []struct {
		name        string
		academic    models.AcademicInfo
		probability int
		category    models.AdmissionChance
	}{
		{
			name:        "perfect profile capped at 99",
			academic:    models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeSAT, TestScore: 1600},
			probability: 99,
			category:    models.ChanceHigh,
		},
		{
			name:        "strong SAT profile",
			academic:    models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeSAT, TestScore: 1100},
			probability: 88,
			category:    models.ChanceHigh,
		},
		{
			name:        "total of exactly 85 stays moderate",
			academic:    models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeSAT, TestScore: 1000},
			probability: 85,
			category:    models.ChanceModerate,
		},
		{
			name:        "total of exactly 65 stays low",
			academic:    models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeSAT, TestScore: 200},
			probability: 65,
			category:    models.ChanceLow,
		},
		{
			name:        "ACT scale",
			academic:    models.AcademicInfo{GPA: 3.0, TestType: models.TestTypeACT, TestScore: 27},
			probability: 75,
			category:    models.ChanceModerate,
		},
		{
			name:        "weak profile",
			academic:    models.AcademicInfo{GPA: 2.0, TestType: models.TestTypeSAT, TestScore: 800},
			probability: 50,
			category:    models.ChanceLow,
		},
		{
			name:        "Other weighs at most 30 points",
			academic:    models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeOther, TestScore: 100},
			probability: 90,
			category:    models.ChanceHigh,
		},
		{
			name:        "Other score clamps at 100",
			academic:    models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeOther, TestScore: 150},
			probability: 90,
			category:    models.ChanceHigh,
		},
		{
			name:        "Other with no score relies on GPA alone",
			academic:    models.AcademicInfo{GPA: 3.5, TestType: models.TestTypeOther, TestScore: 0},
			probability: 53,
			category:    models.ChanceLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.academic)
			assert.Equal(t, tt.probability, got.Probability)
			assert.Equal(t, tt.category, got.Category)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestFallback_GPAClampsAtScale(t *testing.T) {
	over := Fallback(models.AcademicInfo{GPA: 5.0, TestType: models.TestTypeSAT, TestScore: 1000})
	at := Fallback(models.AcademicInfo{GPA: 4.0, TestType: models.TestTypeSAT, TestScore: 1000})
	assert.Equal(t, at.Probability, over.Probability)
}

func TestFallback_Deterministic(t *testing.T) {
	academic := models.AcademicInfo{GPA: 3.3, TestType: models.TestTypeACT, TestScore: 29}
	first := Fallback(academic)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Fallback(academic))
	}
}

func TestFallback_OtherReasoningNotesReducedWeight(t *testing.T) {
	standard := Fallback(models.AcademicInfo{GPA: 3.0, TestType: models.TestTypeSAT, TestScore: 1200})
	assert.NotContains(t, standard.Reasoning, "non-standard")

	other := Fallback(models.AcademicInfo{GPA: 3.0, TestType: models.TestTypeOther, TestScore: 80})
	assert.Contains(t, other.Reasoning, "non-standard")
}
