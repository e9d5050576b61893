package intake

import (
	"context"
	"errors"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/google/uuid"
)

var (
	// ErrWrongStep is returned when step input does not match the current step.
	ErrWrongStep = errors.New("input does not match the current step")
	// ErrNotAtReview is returned when Submit is called before the review step.
	ErrNotAtReview = errors.New("application can only be submitted from the review step")
)

// Flow is the state machine for one in-progress application. Each session
// owns its own Flow; nothing here is safe for concurrent use.
type Flow struct {
	userID   uuid.UUID
	step     Step
	personal *models.PersonalInfo
	academic *models.AcademicInfo
	guardian *models.GuardianInfo
}

// NewFlow starts an empty flow at the personal step.
func NewFlow(userID uuid.UUID) *Flow {
	return &Flow{userID: userID, step: StepPersonal}
}

// NewFlowFrom starts a flow pre-filled from an existing application, for the
// edit path. The flow still begins at the personal step so every section is
// re-reviewed and re-validated on its way back to Review; submitting creates
// a new application with a new reference id.
func NewFlowFrom(userID uuid.UUID, app *models.Application) *Flow {
	personal := app.Personal
	academic := app.Academic
	guardian := app.Guardian
	return &Flow{
		userID:   userID,
		step:     StepPersonal,
		personal: &personal,
		academic: &academic,
		guardian: &guardian,
	}
}

func (f *Flow) Step() Step { return f.step }

// Forms returns the display representation of the accumulated sections,
// including the stored-to-displayed test score conversion.
func (f *Flow) Forms() Forms {
	return Forms{
		Personal: personalForm(f.personal),
		Academic: academicForm(f.academic),
		Guardian: guardianForm(f.guardian),
	}
}

// AdvancePersonal validates the personal form and, on success, merges it and
// moves to the academic step. On failure the flow stays put and nothing is
// merged; the returned error is a *ValidationError.
func (f *Flow) AdvancePersonal(form PersonalForm) error {
	if f.step != StepPersonal {
		return ErrWrongStep
	}
	info, verr := ValidatePersonal(form)
	if verr != nil {
		return verr
	}
	f.personal = &info
	f.step = StepAcademic
	return nil
}

func (f *Flow) AdvanceAcademic(form AcademicForm) error {
	if f.step != StepAcademic {
		return ErrWrongStep
	}
	info, verr := ValidateAcademic(form)
	if verr != nil {
		return verr
	}
	f.academic = &info
	f.step = StepGuardian
	return nil
}

func (f *Flow) AdvanceGuardian(form GuardianForm) error {
	if f.step != StepGuardian {
		return ErrWrongStep
	}
	info, verr := ValidateGuardian(form)
	if verr != nil {
		return verr
	}
	f.guardian = &info
	f.step = StepReview
	return nil
}

// Retreat moves back one step, keeping all accumulated data. At the first
// step it is a no-op.
func (f *Flow) Retreat() {
	if f.step > StepPersonal {
		f.step--
	}
}

// Submit assembles the full application and hands it to the store, returning
// the created record. It is only valid at the review step. Reaching Review
// with a missing section is impossible through Advance, so that case is a
// broken state machine and panics rather than returning a user error.
func (f *Flow) Submit(ctx context.Context, st store.ApplicationStore) (*models.Application, error) {
	if f.step != StepReview {
		return nil, ErrNotAtReview
	}
	if f.personal == nil || f.academic == nil || f.guardian == nil {
		panic("intake: review step reached with incomplete sections")
	}
	return st.Create(ctx, f.userID, *f.personal, *f.academic, *f.guardian)
}
