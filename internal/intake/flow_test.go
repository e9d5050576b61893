package intake

import (
	"context"
	"testing"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceToReview(t *testing.T, f *Flow) {
	t.Helper()
	require.NoError(t, f.AdvancePersonal(validPersonalForm()))
	require.NoError(t, f.AdvanceAcademic(validAcademicForm()))
	require.NoError(t, f.AdvanceGuardian(validGuardianForm()))
	require.Equal(t, StepReview, f.Step())
}

func TestFlow_StartsAtPersonal(t *testing.T) {
	f := NewFlow(uuid.New())
	assert.Equal(t, StepPersonal, f.Step())
	forms := f.Forms()
	assert.Nil(t, forms.Personal)
	assert.Nil(t, forms.Academic)
	assert.Nil(t, forms.Guardian)
}

func TestFlow_InvalidInputStaysPut(t *testing.T) {
	f := NewFlow(uuid.New())

	form := validPersonalForm()
	form.FirstName = "A"
	err := f.AdvancePersonal(form)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "First name is required", verr.Fields["firstName"])
	assert.Equal(t, StepPersonal, f.Step())
	assert.Nil(t, f.Forms().Personal, "failed input must not be merged")
}

func TestFlow_WrongStepInput(t *testing.T) {
	f := NewFlow(uuid.New())
	assert.ErrorIs(t, f.AdvanceAcademic(validAcademicForm()), ErrWrongStep)
	assert.ErrorIs(t, f.AdvanceGuardian(validGuardianForm()), ErrWrongStep)

	require.NoError(t, f.AdvancePersonal(validPersonalForm()))
	assert.ErrorIs(t, f.AdvancePersonal(validPersonalForm()), ErrWrongStep)
}

func TestFlow_RetreatKeepsData(t *testing.T) {
	f := NewFlow(uuid.New())
	require.NoError(t, f.AdvancePersonal(validPersonalForm()))
	require.NoError(t, f.AdvanceAcademic(validAcademicForm()))

	f.Retreat()
	assert.Equal(t, StepAcademic, f.Step())
	forms := f.Forms()
	require.NotNil(t, forms.Academic)
	assert.Equal(t, "1380", forms.Academic.TestScore)

	// Re-advancing with changed data replaces the section wholesale.
	updated := validAcademicForm()
	updated.TestScore = "1450"
	require.NoError(t, f.AdvanceAcademic(updated))
	assert.Equal(t, "1450", f.Forms().Academic.TestScore)
}

func TestFlow_RetreatAtFirstStepIsNoop(t *testing.T) {
	f := NewFlow(uuid.New())
	f.Retreat()
	assert.Equal(t, StepPersonal, f.Step())
}

func TestFlow_TestScoreRoundTrip(t *testing.T) {
	f := NewFlow(uuid.New())
	require.NoError(t, f.AdvancePersonal(validPersonalForm()))

	form := validAcademicForm()
	form.TestType = "Other"
	form.TestScore = ""
	require.NoError(t, f.AdvanceAcademic(form))

	f.Retreat()
	got := f.Forms().Academic
	require.NotNil(t, got)
	assert.Equal(t, "Other", got.TestType)
	assert.Equal(t, "", got.TestScore, "optional score must display empty, not 0")
}

func TestFlow_SubmitBeforeReview(t *testing.T) {
	f := NewFlow(uuid.New())
	st, err := store.NewMemory(context.Background(), nil)
	require.NoError(t, err)

	_, err = f.Submit(context.Background(), st)
	assert.ErrorIs(t, err, ErrNotAtReview)
}

func TestFlow_SubmitPanicsOnIncompleteSections(t *testing.T) {
	f := &Flow{userID: uuid.New(), step: StepReview}
	st, err := store.NewMemory(context.Background(), nil)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = f.Submit(context.Background(), st)
	})
}

func TestFlow_SubmitCreatesPendingApplication(t *testing.T) {
	userID := uuid.New()
	f := NewFlow(userID)
	advanceToReview(t, f)

	st, err := store.NewMemory(context.Background(), nil)
	require.NoError(t, err)

	app, err := f.Submit(context.Background(), st)
	require.NoError(t, err)
	assert.Regexp(t, `^APP-\d{4}$`, app.ID)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, userID, app.UserID)
	assert.Equal(t, "Jordan", app.Personal.FirstName)
	assert.Equal(t, 1380, app.Academic.TestScore)
	assert.Equal(t, "Maria Rivera", app.Guardian.FullName)
	assert.False(t, app.SubmittedAt.IsZero())
	assert.Equal(t, app.SubmittedAt, app.StatusUpdatedAt)
}

func TestFlow_PrefillFromExistingApplication(t *testing.T) {
	userID := uuid.New()
	first := NewFlow(userID)
	advanceToReview(t, first)

	st, err := store.NewMemory(context.Background(), nil)
	require.NoError(t, err)
	original, err := first.Submit(context.Background(), st)
	require.NoError(t, err)

	edit := NewFlowFrom(userID, original)
	assert.Equal(t, StepPersonal, edit.Step(), "edit flow re-walks every step")
	forms := edit.Forms()
	require.NotNil(t, forms.Personal)
	assert.Equal(t, "Jordan", forms.Personal.FirstName)
	require.NotNil(t, forms.Guardian)
	assert.Equal(t, "Maria Rivera", forms.Guardian.FullName)

	advanceToReview(t, edit)
	second, err := edit.Submit(context.Background(), st)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, second.ID, "resubmission gets a fresh reference id")
}

func TestManager_OneFlowPerUser(t *testing.T) {
	m := NewManager()
	userID := uuid.New()

	_, ok := m.Get(userID)
	assert.False(t, ok)

	f := m.Start(userID, nil)
	require.NotNil(t, f)
	got, ok := m.Get(userID)
	require.True(t, ok)
	assert.Same(t, f, got)

	// Starting again replaces the in-progress flow.
	g := m.Start(userID, nil)
	assert.NotSame(t, f, g)
	got, ok = m.Get(userID)
	require.True(t, ok)
	assert.Same(t, g, got)

	m.End(userID)
	_, ok = m.Get(userID)
	assert.False(t, ok)
}
