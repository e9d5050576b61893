package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound means the reference id does not exist; a stale reference
	// or caller bug, never silently swallowed.
	ErrNotFound = errors.New("application not found")
	// ErrInvalidStatus means the requested status is not a valid review target.
	ErrInvalidStatus = errors.New("invalid status for review")
	// ErrInvalidPrediction means the prediction category is not a known value.
	ErrInvalidPrediction = errors.New("invalid prediction category")
	// ErrIDSpaceExhausted means no free reference id could be generated.
	ErrIDSpaceExhausted = errors.New("reference id space exhausted")
)

// ReferencePrefix is the fixed prefix of every reference id. The suffix is a
// 4-digit number, so ids look like APP-4821.
const ReferencePrefix = "APP-"

const maxIDAttempts = 64

// ApplicationStore is the shared, process-wide collection of applications.
// Implementations must serialize mutations so concurrent submissions neither
// collide on ids nor lose records.
type ApplicationStore interface {
	// Create stores a new application with a fresh reference id and status
	// Pending, setting both timestamps, and returns the stored record.
	Create(ctx context.Context, userID uuid.UUID, personal models.PersonalInfo, academic models.AcademicInfo, guardian models.GuardianInfo) (*models.Application, error)

	// GetByID returns the application or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Application, error)

	// UpdateStatus moves the application to a review target status and bumps
	// StatusUpdatedAt. Returns ErrNotFound or ErrInvalidStatus.
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)

	// AttachPrediction sets (or overwrites) the AI prediction without
	// touching status. Returns ErrNotFound or ErrInvalidPrediction.
	AttachPrediction(ctx context.Context, id string, prediction models.PredictionResult) (*models.Application, error)

	// ListAll returns every application, newest submission first.
	ListAll(ctx context.Context) ([]models.Application, error)

	// ListByOwner returns the user's applications, newest submission first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Application, error)
}

func newReferenceID() string {
	return fmt.Sprintf("%s%d", ReferencePrefix, 1000+rand.Intn(9000))
}

func checkReviewTarget(status models.ApplicationStatus) error {
	if !models.ReviewTargets[status] {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return nil
}

func checkPrediction(p models.PredictionResult) error {
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPrediction, p.Category)
	}
	return nil
}
