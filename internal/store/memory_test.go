package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSections() (models.PersonalInfo, models.AcademicInfo, models.GuardianInfo) {
	personal := models.PersonalInfo{
		FirstName: "Jordan", LastName: "Rivera",
		Email: "jordan.rivera@example.com", Phone: "+15551234567",
		DateOfBirth: "2007-03-14", Address: "42 Campus Drive, Springfield",
	}
	academic := models.AcademicInfo{
		GPA: 3.7, TestType: models.TestTypeSAT, TestScore: 1380,
		HighSchool: "Springfield High", GraduationYear: 2025,
		Activities: "Debate club captain, varsity soccer",
	}
	guardian := models.GuardianInfo{
		FullName: "Maria Rivera", Relationship: "Mother",
		Phone: "+15559876543", Email: "maria.rivera@example.com",
	}
	return personal, academic, guardian
}

func mustCreate(t *testing.T, m *Memory, userID uuid.UUID) *models.Application {
	t.Helper()
	personal, academic, guardian := testSections()
	app, err := m.Create(context.Background(), userID, personal, academic, guardian)
	require.NoError(t, err)
	return app
}

func TestMemory_Create(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)

	userID := uuid.New()
	app := mustCreate(t, m, userID)

	assert.Regexp(t, `^APP-\d{4}$`, app.ID)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, userID, app.UserID)
	assert.Equal(t, app.SubmittedAt, app.StatusUpdatedAt)
	assert.Nil(t, app.AIPrediction)

	stored, err := m.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, *app, *stored)
}

func TestMemory_GetByIDNotFound(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)

	_, err = m.GetByID(context.Background(), "APP-0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateStatus(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	app := mustCreate(t, m, uuid.New())

	later := base.Add(2 * time.Hour)
	m.now = func() time.Time { return later }

	updated, err := m.UpdateStatus(context.Background(), app.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, later, updated.StatusUpdatedAt)
	assert.Equal(t, base, updated.SubmittedAt, "submission time never moves")
}

func TestMemory_UpdateStatusErrors(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)
	app := mustCreate(t, m, uuid.New())

	_, err = m.UpdateStatus(context.Background(), "APP-0000", models.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.UpdateStatus(context.Background(), app.ID, models.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = m.UpdateStatus(context.Background(), app.ID, models.ApplicationStatus("Waitlisted"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := m.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status, "failed updates leave the record alone")
}

func TestMemory_ReviewTargets(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)
	app := mustCreate(t, m, uuid.New())

	for _, status := range []models.ApplicationStatus{
		models.StatusUnderReview, models.StatusApproved, models.StatusRejected,
	} {
		updated, err := m.UpdateStatus(context.Background(), app.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestMemory_AttachPrediction(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)
	app := mustCreate(t, m, uuid.New())

	prediction := models.PredictionResult{Probability: 78, Category: models.ChanceModerate, Reasoning: "Solid grades."}
	updated, err := m.AttachPrediction(context.Background(), app.ID, prediction)
	require.NoError(t, err)
	require.NotNil(t, updated.AIPrediction)
	assert.Equal(t, prediction, *updated.AIPrediction)
	assert.Equal(t, app.Status, updated.Status, "prediction never changes status")
	assert.Equal(t, app.StatusUpdatedAt, updated.StatusUpdatedAt)

	// A later run overwrites the earlier result.
	second := models.PredictionResult{Probability: 91, Category: models.ChanceHigh, Reasoning: "Re-evaluated."}
	updated, err = m.AttachPrediction(context.Background(), app.ID, second)
	require.NoError(t, err)
	assert.Equal(t, second, *updated.AIPrediction)

	_, err = m.AttachPrediction(context.Background(), app.ID,
		models.PredictionResult{Probability: 50, Category: models.AdmissionChance("Maybe")})
	assert.ErrorIs(t, err, ErrInvalidPrediction)

	_, err = m.AttachPrediction(context.Background(), "APP-0000", prediction)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ListOrdering(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	owner := uuid.New()
	other := uuid.New()

	clock := base
	m.now = func() time.Time { return clock }
	first := mustCreate(t, m, owner)

	clock = base.Add(time.Hour)
	second := mustCreate(t, m, other)

	clock = base.Add(2 * time.Hour)
	third := mustCreate(t, m, owner)

	all, err := m.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)

	mine, err := m.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, third.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

func TestMemory_ConcurrentSubmissions(t *testing.T) {
	m, err := NewMemory(context.Background(), nil)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			personal, academic, guardian := testSections()
			_, errs[i] = m.Create(context.Background(), uuid.New(), personal, academic, guardian)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	all, err := m.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, n, "no submission may be lost")

	seen := make(map[string]bool, n)
	for _, app := range all {
		assert.False(t, seen[app.ID], "duplicate reference id %s", app.ID)
		seen[app.ID] = true
	}
}

type failingKV struct {
	fail bool
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("kv unavailable")
	}
	return nil
}

func TestMemory_RollbackOnPersistFailure(t *testing.T) {
	kv := &failingKV{}
	m, err := NewMemory(context.Background(), kv)
	require.NoError(t, err)

	app := mustCreate(t, m, uuid.New())

	kv.fail = true

	personal, academic, guardian := testSections()
	_, err = m.Create(context.Background(), uuid.New(), personal, academic, guardian)
	require.Error(t, err)

	_, err = m.UpdateStatus(context.Background(), app.ID, models.StatusApproved)
	require.Error(t, err)

	all, listErr := m.ListAll(context.Background())
	require.NoError(t, listErr)
	require.Len(t, all, 1, "failed create must be rolled back")
	assert.Equal(t, models.StatusPending, all[0].Status, "failed update must be rolled back")
}
