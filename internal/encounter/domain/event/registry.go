package event

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	// ErrTypeRequired indicates an event without a type.
	ErrTypeRequired = errors.New("event type is required")
	// ErrEncounterIDRequired indicates an event without an encounter id.
	ErrEncounterIDRequired = errors.New("encounter id is required")
	// ErrUnknownType indicates an event type nothing registered.
	ErrUnknownType = errors.New("unknown event type")
)

// Definition describes one registered event type.
type Definition struct {
	Type Type
	// ValidatePayload checks the payload shape before append. A nil
	// validator accepts any payload.
	ValidatePayload func(payloadJSON []byte) error
}

// Registry holds event definitions and vets events before append.
type Registry struct {
	mu          sync.RWMutex
	definitions map[Type]Definition
}

// NewRegistry creates an empty event registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds an event definition. Re-registering a type is an error.
func (r *Registry) Register(def Definition) error {
	if !def.Type.IsValid() {
		return ErrTypeRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("event type %s already registered", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Types returns the registered event types, for parity checks in tests.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]Type, 0, len(r.definitions))
	for t := range r.definitions {
		types = append(types, t)
	}
	return types
}

// ValidateForAppend normalizes and vets an event before journal append.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	evt.EncounterID = strings.TrimSpace(evt.EncounterID)
	if evt.EncounterID == "" {
		return Event{}, ErrEncounterIDRequired
	}
	if !evt.Type.IsValid() {
		return Event{}, ErrTypeRequired
	}

	r.mu.RLock()
	def, ok := r.definitions[evt.Type]
	r.mu.RUnlock()
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownType, evt.Type)
	}
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(evt.PayloadJSON); err != nil {
			return Event{}, fmt.Errorf("validate %s payload: %w", evt.Type, err)
		}
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	return evt, nil
}
