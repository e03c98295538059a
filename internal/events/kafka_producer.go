package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/repair-dispatch/internal/models"
)

// Event types published to the assignments topic.
const (
	TypeAssignmentCreated = "assignment_created"
	TypeBookingConfirmed  = "booking_confirmed"
)

type Envelope struct {
	Type         string `json:"type"`
	AssignmentID string `json:"assignment_id"`
	TechnicianID int    `json:"technician_id"`
	SlotDate     string `json:"slot_date,omitempty"`
	SlotDisplay  string `json:"slot_display,omitempty"`
	At           string `json:"at"`
}

// Producer publishes assignment lifecycle events. Nil-safe: a nil producer
// drops events, so unconfigured deployments skip Kafka entirely.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &Producer{writer: w}
}

func (p *Producer) publish(e Envelope) error {
	if p == nil || p.writer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, _ := json.Marshal(e)
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.AssignmentID), Value: b})
}

func (p *Producer) AssignmentCreated(a *models.JobAssignment) error {
	return p.publish(Envelope{
		Type:         TypeAssignmentCreated,
		AssignmentID: a.ID,
		TechnicianID: a.Technician.ID,
		At:           time.Now().Format(time.RFC3339),
	})
}

func (p *Producer) BookingConfirmed(assignmentID string, technicianID int, date, display string) error {
	return p.publish(Envelope{
		Type:         TypeBookingConfirmed,
		AssignmentID: assignmentID,
		TechnicianID: technicianID,
		SlotDate:     date,
		SlotDisplay:  display,
		At:           time.Now().Format(time.RFC3339),
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
