package journal

import (
	"context"
	"sync"

	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

// Memory is an in-memory Journal. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]event.Event
}

// NewMemory returns an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]event.Event)}
}

// Append stores the event and returns it with its assigned sequence.
func (m *Memory) Append(_ context.Context, evt event.Event) (event.Event, error) {
	if evt.EncounterID == "" {
		return event.Event{}, ErrEncounterIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	evt.Seq = uint64(len(m.entries[evt.EncounterID])) + 1
	m.entries[evt.EncounterID] = append(m.entries[evt.EncounterID], evt)
	return evt, nil
}

// List returns up to limit events with Seq greater than afterSeq, in
// sequence order. A limit of zero or less means no limit.
func (m *Memory) List(_ context.Context, encounterID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if encounterID == "" {
		return nil, ErrEncounterIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.entries[encounterID]
	out := make([]event.Event, 0, len(stored))
	for _, evt := range stored {
		if evt.Seq <= afterSeq {
			continue
		}
		out = append(out, evt)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
