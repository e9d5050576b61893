package intake

import (
	"sync"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/google/uuid"
)

// Manager holds the live flow per user. A user has at most one in-progress
// application; starting a new flow replaces any existing one.
type Manager struct {
	mu    sync.Mutex
	flows map[uuid.UUID]*Flow
}

func NewManager() *Manager {
	return &Manager{flows: make(map[uuid.UUID]*Flow)}
}

// Start creates a flow for the user, pre-filled from an existing application
// when one is given.
func (m *Manager) Start(userID uuid.UUID, from *models.Application) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	var f *Flow
	if from != nil {
		f = NewFlowFrom(userID, from)
	} else {
		f = NewFlow(userID)
	}
	m.flows[userID] = f
	return f
}

func (m *Manager) Get(userID uuid.UUID) (*Flow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[userID]
	return f, ok
}

// End discards the user's flow, called after a successful submit.
func (m *Manager) End(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, userID)
}
