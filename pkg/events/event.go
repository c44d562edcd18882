package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract every domain event satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation the services publish.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by this service.
const (
	TypeUserRegistered = "USER_REGISTERED"
	TypeNoteCreated    = "NOTE_CREATED"
	TypeNoteDeleted    = "NOTE_DELETED"
)

func NewUserRegistered(userId uuid.UUID, email string) BaseEvent {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewNoteCreated(noteId, userId uuid.UUID, title string) BaseEvent {
	return BaseEvent{
		Type: TypeNoteCreated,
		Data: map[string]interface{}{
			"note_id": noteId,
			"user_id": userId,
			"title":   title,
		},
		OccurredAt: time.Now(),
	}
}

func NewNoteDeleted(noteId, userId uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: TypeNoteDeleted,
		Data: map[string]interface{}{
			"note_id": noteId,
			"user_id": userId,
		},
		OccurredAt: time.Now(),
	}
}
