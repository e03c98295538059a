package dispatch

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/repair-dispatch/internal/models"
)

// Offerer pushes a new assignment to the technician it was matched to.
// Delivery is best-effort: a missed offer does not fail the assignment.
type Offerer interface {
	Offer(offer models.AssignmentOffer) error
}

// WSSession is one connected technician app.
type WSSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *WSSession) Send(offer models.AssignmentOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(offer)
}

// WSRegistry holds technician sessions keyed by technician id.
type WSRegistry struct {
	mu       sync.RWMutex
	sessions map[int]*WSSession
}

func NewWSRegistry() *WSRegistry { return &WSRegistry{sessions: make(map[int]*WSSession)} }

func (r *WSRegistry) Add(technicianID int, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[technicianID] = &WSSession{conn: conn}
}

func (r *WSRegistry) Remove(technicianID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, technicianID)
}

func (r *WSRegistry) Offer(offer models.AssignmentOffer) error {
	r.mu.RLock()
	s, ok := r.sessions[offer.TechnicianID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}
	if err := s.Send(offer); err != nil {
		log.Printf("ws send error technician=%d: %v", offer.TechnicianID, err)
		return err
	}
	return nil
}

var ErrNoSession = &NoSessionError{}

type NoSessionError struct{}

func (n *NoSessionError) Error() string { return "no ws session" }
