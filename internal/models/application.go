package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus values match what the dashboard and admin panel display.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "Draft"
	StatusPending     ApplicationStatus = "Pending"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusApproved    ApplicationStatus = "Approved"
	StatusRejected    ApplicationStatus = "Rejected"
)

// ReviewTargets lists the statuses a reviewer may move an application to.
// Draft exists for a future autosave flow and is never a valid target.
var ReviewTargets = map[ApplicationStatus]bool{
	StatusUnderReview: true,
	StatusApproved:    true,
	StatusRejected:    true,
}

type TestType string

const (
	TestTypeSAT   TestType = "SAT"
	TestTypeACT   TestType = "ACT"
	TestTypeOther TestType = "Other"
)

func (t TestType) Valid() bool {
	return t == TestTypeSAT || t == TestTypeACT || t == TestTypeOther
}

// AdmissionChance is the categorical admission estimate.
type AdmissionChance string

const (
	ChanceHigh         AdmissionChance = "High"
	ChanceModerate     AdmissionChance = "Moderate"
	ChanceLow          AdmissionChance = "Low"
	ChanceUncalculated AdmissionChance = "Uncalculated"
)

func (c AdmissionChance) Valid() bool {
	switch c {
	case ChanceHigh, ChanceModerate, ChanceLow, ChanceUncalculated:
		return true
	}
	return false
}

type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dob"`
	Address     string `json:"address"`
}

type AcademicInfo struct {
	GPA               float64  `json:"gpa"`
	TestType          TestType `json:"testType"`
	TestScore         int      `json:"testScore"`
	HighSchool        string   `json:"highSchool"`
	GraduationYear    int      `json:"graduationYear"`
	Activities        string   `json:"activities"`
	PersonalStatement string   `json:"personalStatement,omitempty"`
}

type GuardianInfo struct {
	FullName     string `json:"fullName"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// PredictionResult is the admission estimate attached to an application,
// produced either by the remote reasoning service or the local heuristic.
type PredictionResult struct {
	Probability int             `json:"probability"`
	Category    AdmissionChance `json:"category"`
	Reasoning   string          `json:"reasoning"`
}

// Application is the aggregate submitted at the end of the intake flow.
// Everything except Status (+StatusUpdatedAt) and AIPrediction is fixed at
// creation; editing an application means submitting a new one pre-filled
// from the old record.
type Application struct {
	ID              string            `gorm:"primaryKey;size:12" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Status          ApplicationStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	SubmittedAt     time.Time         `gorm:"not null" json:"submitted_at"`
	StatusUpdatedAt time.Time         `gorm:"not null" json:"status_updated_at"`
	Personal        PersonalInfo      `gorm:"type:jsonb;serializer:json" json:"personal"`
	Academic        AcademicInfo      `gorm:"type:jsonb;serializer:json" json:"academic"`
	Guardian        GuardianInfo      `gorm:"type:jsonb;serializer:json" json:"guardian"`
	AIPrediction    *PredictionResult `gorm:"type:jsonb;serializer:json" json:"ai_prediction,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}
