package events

import "time"

// Topics the platform publishes to. Consumers (notification dispatch and
// friends) subscribe independently; nothing in this process reads them back.
const (
	TopicPatientEvents     = "patient-events"
	TopicBillingEvents     = "billing-events"
	TopicAppointmentEvents = "appointment-events"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentStatusUpdated = "APPOINTMENT_STATUS_UPDATED"
)

// Event is the wire shape shared by every topic: a tagged type, a unix
// millisecond timestamp, and a flat data payload. Events are one-shot and
// immutable; there is no acknowledgment or replay.
type Event struct {
	EventType string         `json:"eventType"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// New stamps an event with the current time.
func New(eventType string, data map[string]any) Event {
	return Event{
		EventType: eventType,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}
