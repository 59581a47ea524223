// Package event defines the immutable encounter event journal entries.
package event

import (
	"strings"
	"time"
)

// Type identifies the type of an encounter event.
type Type string

// Roster events.
const (
	// TypeUnitCreated records a unit joining the encounter roster.
	TypeUnitCreated Type = "unit.created"
	// TypeUnitUpdated records updates to a unit's scheduling fields.
	TypeUnitUpdated Type = "unit.updated"
	// TypeUnitDeleted records a unit leaving the encounter.
	TypeUnitDeleted Type = "unit.deleted"
	// TypeGroupCreated records the creation of a turn group.
	TypeGroupCreated Type = "group.created"
	// TypeGroupDeleted records the deletion of a turn group.
	TypeGroupDeleted Type = "group.deleted"
)

// Turn scheduling events.
const (
	// TypeTurnOrderSet records a full operator reorder of the rotation.
	TypeTurnOrderSet Type = "turn.order_set"
	// TypeTurnAdvanced records one forward step of the scheduler.
	TypeTurnAdvanced Type = "turn.advanced"
	// TypeTurnTempGranted records an operator-granted temporary turn.
	TypeTurnTempGranted Type = "turn.temp_granted"
	// TypeTurnDisabledSet records a turn-disabled flag change.
	TypeTurnDisabledSet Type = "turn.disabled_set"
)

// ActorType identifies who or what triggered an event.
type ActorType string

const (
	// ActorTypeSystem indicates the event was triggered by the system.
	ActorTypeSystem ActorType = "system"
	// ActorTypeOperator indicates the event was triggered by the operator.
	ActorTypeOperator ActorType = "operator"
)

// Event represents an immutable entry in the encounter event journal.
type Event struct {
	// EncounterID is the encounter this event belongs to.
	EncounterID string
	// Seq is the event sequence number within the encounter (starts at 1).
	// Assigned by the journal on append.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// RequestID correlates related events back to the triggering command.
	RequestID string
	// ActorType identifies who triggered the event.
	ActorType ActorType
	// ActorID names the operator when ActorType is operator.
	ActorID string
	// EntityType is the type of entity affected (unit, group, turn).
	EntityType string
	// EntityID is the id of the entity affected.
	EntityID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g. "unit", "turn").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
