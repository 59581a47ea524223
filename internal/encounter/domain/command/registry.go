package command

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrTypeRequired indicates a command without a type.
	ErrTypeRequired = errors.New("command type is required")
	// ErrEncounterIDRequired indicates a command without an encounter id.
	ErrEncounterIDRequired = errors.New("encounter id is required")
	// ErrUnknownType indicates a command type nothing registered.
	ErrUnknownType = errors.New("unknown command type")
)

// Definition describes one registered command type.
type Definition struct {
	// Type is the command type this definition covers.
	Type Type
	// ValidatePayload checks the payload shape before the decider runs.
	// A nil validator accepts any payload.
	ValidatePayload func(payloadJSON []byte) error
}

// Registry holds command definitions and validates incoming commands.
type Registry struct {
	mu          sync.RWMutex
	definitions map[Type]Definition
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a command definition. Re-registering a type is an error.
func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(string(def.Type)) == "" {
		return ErrTypeRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("command type %s already registered", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition looks up the definition for a command type.
func (r *Registry) Definition(commandType Type) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[commandType]
	return def, ok
}

// ValidateForDecision normalizes and validates a command before deciding.
func (r *Registry) ValidateForDecision(cmd Command) (Command, error) {
	cmd.EncounterID = strings.TrimSpace(cmd.EncounterID)
	cmd.ActorID = strings.TrimSpace(cmd.ActorID)
	cmd.RequestID = strings.TrimSpace(cmd.RequestID)
	if cmd.EncounterID == "" {
		return Command{}, ErrEncounterIDRequired
	}
	if strings.TrimSpace(string(cmd.Type)) == "" {
		return Command{}, ErrTypeRequired
	}

	def, ok := r.Definition(cmd.Type)
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownType, cmd.Type)
	}
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(cmd.PayloadJSON); err != nil {
			return Command{}, fmt.Errorf("validate %s payload: %w", cmd.Type, err)
		}
	}
	return cmd, nil
}
