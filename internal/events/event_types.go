package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVolunteerSignedUp      EventType = "volunteer.signed_up"
	EventPasswordResetRequested EventType = "admin.password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: at,
		Payload:   payload,
	}
}

// VolunteerSignedUpPayload payload.
type VolunteerSignedUpPayload struct {
	VolunteerID int64      `json:"volunteer_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	SignupDate  time.Time  `json:"signup_date"`
	Ministries  []Ministry `json:"ministries"`
}

// Ministry is one selected area on a signup event.
type Ministry struct {
	Category     string `json:"category"`
	MinistryArea string `json:"ministry_area"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	AdminID   int64     `json:"admin_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
