// Package command defines the operator command envelope and the shared
// registry that validates commands before they reach a decider.
package command

// Type identifies the type of an encounter command.
type Type string

// ActorType identifies who issued a command.
type ActorType string

const (
	// ActorTypeSystem marks commands issued by the system itself.
	ActorTypeSystem ActorType = "system"
	// ActorTypeOperator marks commands issued by the encounter operator.
	ActorTypeOperator ActorType = "operator"
)

// Command is one serialized operator intent against an encounter.
type Command struct {
	// EncounterID scopes the command to one encounter.
	EncounterID string
	// Type identifies the kind of command.
	Type Type
	// ActorType identifies who issued the command.
	ActorType ActorType
	// ActorID names the operator when ActorType is operator.
	ActorID string
	// RequestID correlates the command with the events it produces.
	RequestID string
	// PayloadJSON holds command-specific data as JSON.
	PayloadJSON []byte
}
