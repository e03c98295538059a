package booking

import (
	"sync"

	"github.com/example/repair-dispatch/internal/models"
)

// AssignmentStore defines persistence for assignment records and confirmed
// bookings.
type AssignmentStore interface {
	SaveAssignment(a *models.JobAssignment) error
	GetAssignment(id string) (*models.JobAssignment, bool)
	SaveBooking(assignmentID, date, displayTime string) error
}

// MemoryStore keeps assignments in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	assignments map[string]*models.JobAssignment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assignments: make(map[string]*models.JobAssignment)}
}

func (m *MemoryStore) SaveAssignment(a *models.JobAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *MemoryStore) GetAssignment(id string) (*models.JobAssignment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	return a, ok
}

func (m *MemoryStore) SaveBooking(assignmentID, date, displayTime string) error {
	return nil
}

// SessionStore holds the per-assignment booking selections. A selection is
// discarded when the user starts a new diagnosis (a new assignment replaces
// the old key).
type SessionStore struct {
	mu         sync.Mutex
	selections map[string]*Selection
}

func NewSessionStore() *SessionStore {
	return &SessionStore{selections: make(map[string]*Selection)}
}

// Selection returns the selection for an assignment, creating it on first use.
func (s *SessionStore) Selection(assignmentID string) *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selections[assignmentID]
	if !ok {
		sel = &Selection{}
		s.selections[assignmentID] = sel
	}
	return sel
}

// Drop removes a selection, e.g. when its assignment is superseded.
func (s *SessionStore) Drop(assignmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, assignmentID)
}
