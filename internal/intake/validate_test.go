package intake

import (
	"testing"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonalForm() PersonalForm {
	return PersonalForm{
		FirstName:   "Jordan",
		LastName:    "Rivera",
		Email:       "jordan.rivera@example.com",
		Phone:       "+15551234567",
		DateOfBirth: "2007-03-14",
		Address:     "42 Campus Drive, Springfield",
	}
}

func validAcademicForm() AcademicForm {
	return AcademicForm{
		GPA:               "3.7",
		TestType:          "SAT",
		TestScore:         "1380",
		HighSchool:        "Springfield High",
		GraduationYear:    "2025",
		Activities:        "Debate club captain, varsity soccer",
		PersonalStatement: "I want to study computer science.",
	}
}

func validGuardianForm() GuardianForm {
	return GuardianForm{
		FullName:     "Maria Rivera",
		Relationship: "Mother",
		Phone:        "+15559876543",
		Email:        "maria.rivera@example.com",
	}
}

func TestValidatePersonal_Success(t *testing.T) {
	info, verr := ValidatePersonal(validPersonalForm())
	require.Nil(t, verr)
	assert.Equal(t, "Jordan", info.FirstName)
	assert.Equal(t, "jordan.rivera@example.com", info.Email)
	assert.Equal(t, "2007-03-14", info.DateOfBirth)
}

func TestValidatePersonal_FieldMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PersonalForm)
		field   string
		message string
	}{
		{"short first name", func(f *PersonalForm) { f.FirstName = "A" }, "firstName", "First name is required"},
		{"short last name", func(f *PersonalForm) { f.LastName = "B" }, "lastName", "Last name is required"},
		{"bad email", func(f *PersonalForm) { f.Email = "not-an-email" }, "email", "Invalid email"},
		{"short phone", func(f *PersonalForm) { f.Phone = "12345" }, "phone", "Phone number required"},
		{"missing dob", func(f *PersonalForm) { f.DateOfBirth = "" }, "dob", "Date of Birth required"},
		{"short address", func(f *PersonalForm) { f.Address = "n/a" }, "address", "Address required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validPersonalForm()
			tt.mutate(&form)
			_, verr := ValidatePersonal(form)
			require.NotNil(t, verr)
			assert.Equal(t, tt.message, verr.Fields[tt.field])
		})
	}
}

func TestValidatePersonal_ReportsAllFailures(t *testing.T) {
	_, verr := ValidatePersonal(PersonalForm{})
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 6)
	assert.Contains(t, verr.Error(), "firstName")
	assert.Contains(t, verr.Error(), "phone")
}

func TestValidateAcademic_Success(t *testing.T) {
	info, verr := ValidateAcademic(validAcademicForm())
	require.Nil(t, verr)
	assert.InDelta(t, 3.7, info.GPA, 0.0001)
	assert.Equal(t, models.TestTypeSAT, info.TestType)
	assert.Equal(t, 1380, info.TestScore)
	assert.Equal(t, 2025, info.GraduationYear)
}

func TestValidateAcademic_GPA(t *testing.T) {
	tests := []struct {
		name    string
		gpa     string
		message string
	}{
		{"empty", "", "GPA is required"},
		{"not a number", "high", "GPA is required"},
		{"negative", "-0.5", "GPA is required"},
		{"over scale", "4.2", "GPA cannot exceed 4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validAcademicForm()
			form.GPA = tt.gpa
			_, verr := ValidateAcademic(form)
			require.NotNil(t, verr)
			assert.Equal(t, tt.message, verr.Fields["gpa"])
		})
	}
}

func TestValidateAcademic_TestScore(t *testing.T) {
	t.Run("SAT score required", func(t *testing.T) {
		form := validAcademicForm()
		form.TestScore = ""
		_, verr := ValidateAcademic(form)
		require.NotNil(t, verr)
		assert.Equal(t, "SAT Score is required", verr.Fields["testScore"])
	})

	t.Run("ACT score required", func(t *testing.T) {
		form := validAcademicForm()
		form.TestType = "ACT"
		form.TestScore = ""
		_, verr := ValidateAcademic(form)
		require.NotNil(t, verr)
		assert.Equal(t, "ACT Score is required", verr.Fields["testScore"])
	})

	t.Run("score must be numeric", func(t *testing.T) {
		form := validAcademicForm()
		form.TestScore = "about 1400"
		_, verr := ValidateAcademic(form)
		require.NotNil(t, verr)
		assert.Equal(t, "Score must be a number", verr.Fields["testScore"])
	})

	t.Run("Other allows empty score as zero", func(t *testing.T) {
		form := validAcademicForm()
		form.TestType = "Other"
		form.TestScore = ""
		info, verr := ValidateAcademic(form)
		require.Nil(t, verr)
		assert.Equal(t, models.TestTypeOther, info.TestType)
		assert.Equal(t, 0, info.TestScore)
	})

	t.Run("Other still rejects non-numeric score", func(t *testing.T) {
		form := validAcademicForm()
		form.TestType = "Other"
		form.TestScore = "ninety"
		_, verr := ValidateAcademic(form)
		require.NotNil(t, verr)
		assert.Equal(t, "Score must be a number", verr.Fields["testScore"])
	})

	t.Run("unknown test type", func(t *testing.T) {
		form := validAcademicForm()
		form.TestType = "GRE"
		_, verr := ValidateAcademic(form)
		require.NotNil(t, verr)
		assert.Equal(t, "Invalid test type", verr.Fields["testType"])
	})
}

func TestValidateAcademic_GraduationYear(t *testing.T) {
	tests := []struct {
		name    string
		year    string
		message string
	}{
		{"not a number", "soon", "Graduation year must be a number"},
		{"too early", "1999", "Graduation year must be between 2000 and 2030"},
		{"too late", "2031", "Graduation year must be between 2000 and 2030"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validAcademicForm()
			form.GraduationYear = tt.year
			_, verr := ValidateAcademic(form)
			require.NotNil(t, verr)
			assert.Equal(t, tt.message, verr.Fields["graduationYear"])
		})
	}
}

func TestValidateAcademic_Activities(t *testing.T) {
	form := validAcademicForm()
	form.Activities = "chess"
	_, verr := ValidateAcademic(form)
	require.NotNil(t, verr)
	assert.Equal(t, "Please list at least one activity", verr.Fields["activities"])
}

func TestValidateGuardian(t *testing.T) {
	info, verr := ValidateGuardian(validGuardianForm())
	require.Nil(t, verr)
	assert.Equal(t, "Maria Rivera", info.FullName)

	_, verr = ValidateGuardian(GuardianForm{Email: "nope"})
	require.NotNil(t, verr)
	assert.Equal(t, "Guardian name required", verr.Fields["fullName"])
	assert.Equal(t, "Relationship required", verr.Fields["relationship"])
	assert.Equal(t, "Phone number required", verr.Fields["phone"])
	assert.Equal(t, "Invalid email", verr.Fields["email"])
}

func TestDisplayTestScore(t *testing.T) {
	assert.Equal(t, "", DisplayTestScore(models.TestTypeOther, 0))
	assert.Equal(t, "85", DisplayTestScore(models.TestTypeOther, 85))
	assert.Equal(t, "0", DisplayTestScore(models.TestTypeSAT, 0))
	assert.Equal(t, "1380", DisplayTestScore(models.TestTypeSAT, 1380))
}
