package intake

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/applynowhq/admissions-backend/internal/models"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidationError reports every failing field of a step, keyed by form field
// name, so the client can render per-field messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) orNil() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func tooShort(s string, min int) bool {
	return utf8.RuneCountInString(s) < min
}

// ValidatePersonal checks the personal section and returns the typed record
// on success. All failing fields are reported, not just the first.
func ValidatePersonal(form PersonalForm) (models.PersonalInfo, *ValidationError) {
	verr := &ValidationError{}
	if tooShort(form.FirstName, 2) {
		verr.add("firstName", "First name is required")
	}
	if tooShort(form.LastName, 2) {
		verr.add("lastName", "Last name is required")
	}
	if !emailPattern.MatchString(form.Email) {
		verr.add("email", "Invalid email")
	}
	if tooShort(form.Phone, 10) {
		verr.add("phone", "Phone number required")
	}
	if form.DateOfBirth == "" {
		verr.add("dob", "Date of Birth required")
	}
	if tooShort(form.Address, 5) {
		verr.add("address", "Address required")
	}
	if v := verr.orNil(); v != nil {
		return models.PersonalInfo{}, v
	}
	return models.PersonalInfo{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		DateOfBirth: form.DateOfBirth,
		Address:     form.Address,
	}, nil
}

// ValidateAcademic checks the academic section. The test score is required
// and numeric for SAT/ACT; under test type Other an empty score normalizes
// to zero.
func ValidateAcademic(form AcademicForm) (models.AcademicInfo, *ValidationError) {
	verr := &ValidationError{}

	gpa, err := strconv.ParseFloat(strings.TrimSpace(form.GPA), 64)
	if err != nil || gpa < 0 {
		verr.add("gpa", "GPA is required")
	} else if gpa > 4.0 {
		verr.add("gpa", "GPA cannot exceed 4.0")
	}

	testType := models.TestType(form.TestType)
	if !testType.Valid() {
		verr.add("testType", "Invalid test type")
	}

	score := 0
	rawScore := strings.TrimSpace(form.TestScore)
	if testType != models.TestTypeOther && testType.Valid() {
		if rawScore == "" {
			verr.add("testScore", fmt.Sprintf("%s Score is required", testType))
		} else if n, err := strconv.Atoi(rawScore); err != nil {
			verr.add("testScore", "Score must be a number")
		} else {
			score = n
		}
	} else if rawScore != "" {
		if n, err := strconv.Atoi(rawScore); err != nil {
			verr.add("testScore", "Score must be a number")
		} else {
			score = n
		}
	}

	if tooShort(form.HighSchool, 2) {
		verr.add("highSchool", "School name required")
	}

	year, err := strconv.Atoi(strings.TrimSpace(form.GraduationYear))
	if err != nil {
		verr.add("graduationYear", "Graduation year must be a number")
	} else if year < 2000 || year > 2030 {
		verr.add("graduationYear", "Graduation year must be between 2000 and 2030")
	}

	if tooShort(form.Activities, 10) {
		verr.add("activities", "Please list at least one activity")
	}

	if v := verr.orNil(); v != nil {
		return models.AcademicInfo{}, v
	}
	return models.AcademicInfo{
		GPA:               gpa,
		TestType:          testType,
		TestScore:         score,
		HighSchool:        form.HighSchool,
		GraduationYear:    year,
		Activities:        form.Activities,
		PersonalStatement: form.PersonalStatement,
	}, nil
}

// ValidateGuardian checks the guardian section.
func ValidateGuardian(form GuardianForm) (models.GuardianInfo, *ValidationError) {
	verr := &ValidationError{}
	if tooShort(form.FullName, 2) {
		verr.add("fullName", "Guardian name required")
	}
	if tooShort(form.Relationship, 2) {
		verr.add("relationship", "Relationship required")
	}
	if tooShort(form.Phone, 10) {
		verr.add("phone", "Phone number required")
	}
	if !emailPattern.MatchString(form.Email) {
		verr.add("email", "Invalid email")
	}
	if v := verr.orNil(); v != nil {
		return models.GuardianInfo{}, v
	}
	return models.GuardianInfo{
		FullName:     form.FullName,
		Relationship: form.Relationship,
		Phone:        form.Phone,
		Email:        form.Email,
	}, nil
}
