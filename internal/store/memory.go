package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/google/uuid"
)

// Memory keeps the whole collection in a mutex-guarded map and optionally
// snapshots it as one JSON blob through a KV collaborator after every
// mutation. With a nil KV it is purely in-process.
type Memory struct {
	mu   sync.Mutex
	apps map[string]models.Application
	kv   KV
	key  string
	now  func() time.Time
}

// NewMemory builds the store and, when kv is non-nil, loads the existing
// snapshot. An unreadable or missing snapshot starts the store empty.
func NewMemory(ctx context.Context, kv KV) (*Memory, error) {
	m := &Memory{
		apps: make(map[string]models.Application),
		kv:   kv,
		key:  SnapshotKey,
		now:  time.Now,
	}
	if kv != nil {
		blob, err := kv.Get(ctx, m.key)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if blob != nil {
			var list []models.Application
			if err := json.Unmarshal(blob, &list); err != nil {
				slog.Warn("discarding unreadable application snapshot", "key", m.key, "error", err)
			} else {
				for _, app := range list {
					m.apps[app.ID] = app
				}
			}
		}
	}
	return m, nil
}

func (m *Memory) persist(ctx context.Context) error {
	if m.kv == nil {
		return nil
	}
	list := m.sortedLocked()
	blob, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := m.kv.Set(ctx, m.key, blob); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (m *Memory) sortedLocked() []models.Application {
	list := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		list = append(list, app)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].SubmittedAt.Equal(list[j].SubmittedAt) {
			return list[i].SubmittedAt.After(list[j].SubmittedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (m *Memory) Create(ctx context.Context, userID uuid.UUID, personal models.PersonalInfo, academic models.AcademicInfo, guardian models.GuardianInfo) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var id string
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return nil, ErrIDSpaceExhausted
		}
		id = newReferenceID()
		if _, taken := m.apps[id]; !taken {
			break
		}
	}

	now := m.now().UTC()
	app := models.Application{
		ID:              id,
		UserID:          userID,
		Status:          models.StatusPending,
		SubmittedAt:     now,
		StatusUpdatedAt: now,
		Personal:        personal,
		Academic:        academic,
		Guardian:        guardian,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.apps[id] = app
	if err := m.persist(ctx); err != nil {
		delete(m.apps, id)
		return nil, err
	}
	return &app, nil
}

func (m *Memory) GetByID(ctx context.Context, id string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &app, nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	if err := checkReviewTarget(status); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	prev := app
	app.Status = status
	app.StatusUpdatedAt = m.now().UTC()
	app.UpdatedAt = app.StatusUpdatedAt
	m.apps[id] = app
	if err := m.persist(ctx); err != nil {
		m.apps[id] = prev
		return nil, err
	}
	return &app, nil
}

func (m *Memory) AttachPrediction(ctx context.Context, id string, prediction models.PredictionResult) (*models.Application, error) {
	if err := checkPrediction(prediction); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	prev := app
	app.AIPrediction = &prediction
	app.UpdatedAt = m.now().UTC()
	m.apps[id] = app
	if err := m.persist(ctx); err != nil {
		m.apps[id] = prev
		return nil, err
	}
	return &app, nil
}

func (m *Memory) ListAll(ctx context.Context) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked(), nil
}

func (m *Memory) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedLocked()
	own := make([]models.Application, 0, len(all))
	for _, app := range all {
		if app.UserID == userID {
			own = append(own, app)
		}
	}
	return own, nil
}
