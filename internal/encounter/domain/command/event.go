package command

import (
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

// NewEvent builds an event.Event by copying the shared envelope fields from
// a command. Callers supply the event-specific type, entity addressing,
// payload, and timestamp, so new envelope fields are forwarded in one place
// instead of per decider.
func NewEvent(cmd Command, eventType event.Type, entityType, entityID string, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		EncounterID: cmd.EncounterID,
		Type:        eventType,
		Timestamp:   now,
		ActorType:   event.ActorType(cmd.ActorType),
		ActorID:     cmd.ActorID,
		RequestID:   cmd.RequestID,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadJSON: payloadJSON,
	}
}
