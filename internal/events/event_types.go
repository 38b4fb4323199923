package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/green-campus/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventMessageReceived  EventType = "message_received"
	EventMessageReplied   EventType = "message_replied"
	EventMessageDeleted   EventType = "message_deleted"
	EventDashboardUpdated EventType = "dashboard_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subjectID, actor string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// MessageReceivedPayload payload.
type MessageReceivedPayload struct {
	UserEmail string `json:"user_email"`
	Subject   string `json:"subject"`
}

// MessageRepliedPayload payload.
type MessageRepliedPayload struct {
	UserEmail   string `json:"user_email"`
	ReplyCount  int    `json:"reply_count"`
	EmailSent   bool   `json:"email_sent"`
	BodyPreview string `json:"body_preview"`
}

// DashboardUpdatedPayload payload.
type DashboardUpdatedPayload struct {
	EnergyPoints int `json:"energy_points"`
	WaterPoints  int `json:"water_points"`
	WastePoints  int `json:"waste_points"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role domain.Role `json:"role"`
}
