package intake

import (
	"strconv"

	"github.com/applynowhq/admissions-backend/internal/models"
)

// Form structs carry raw widget input: every field arrives as a string and
// is only converted to a typed value by the validators.

type PersonalForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dob"`
	Address     string `json:"address"`
}

type AcademicForm struct {
	GPA               string `json:"gpa"`
	TestType          string `json:"testType"`
	TestScore         string `json:"testScore"`
	HighSchool        string `json:"highSchool"`
	GraduationYear    string `json:"graduationYear"`
	Activities        string `json:"activities"`
	PersonalStatement string `json:"personalStatement"`
}

type GuardianForm struct {
	FullName     string `json:"fullName"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Forms is the display representation of a flow's accumulated state, used to
// pre-fill the client when resuming or editing. Sections the user has not
// completed yet are nil.
type Forms struct {
	Personal *PersonalForm `json:"personal,omitempty"`
	Academic *AcademicForm `json:"academic,omitempty"`
	Guardian *GuardianForm `json:"guardian,omitempty"`
}

func personalForm(info *models.PersonalInfo) *PersonalForm {
	if info == nil {
		return nil
	}
	return &PersonalForm{
		FirstName:   info.FirstName,
		LastName:    info.LastName,
		Email:       info.Email,
		Phone:       info.Phone,
		DateOfBirth: info.DateOfBirth,
		Address:     info.Address,
	}
}

func academicForm(info *models.AcademicInfo) *AcademicForm {
	if info == nil {
		return nil
	}
	return &AcademicForm{
		GPA:               strconv.FormatFloat(info.GPA, 'f', -1, 64),
		TestType:          string(info.TestType),
		TestScore:         DisplayTestScore(info.TestType, info.TestScore),
		HighSchool:        info.HighSchool,
		GraduationYear:    strconv.Itoa(info.GraduationYear),
		Activities:        info.Activities,
		PersonalStatement: info.PersonalStatement,
	}
}

func guardianForm(info *models.GuardianInfo) *GuardianForm {
	if info == nil {
		return nil
	}
	return &GuardianForm{
		FullName:     info.FullName,
		Relationship: info.Relationship,
		Phone:        info.Phone,
		Email:        info.Email,
	}
}

// DisplayTestScore converts a stored score back to its form representation.
// A zero score under test type Other round-trips to an empty field, since
// that is how the optional score was entered; any other value displays as
// its decimal string.
func DisplayTestScore(testType models.TestType, score int) string {
	if score == 0 && testType == models.TestTypeOther {
		return ""
	}
	return strconv.Itoa(score)
}
