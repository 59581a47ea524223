// Package checkpoint stores replay checkpoints and state snapshots.
package checkpoint

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/replay"
)

// ErrEncounterIDRequired indicates a missing encounter id.
var ErrEncounterIDRequired = errors.New("encounter id is required")

// Memory stores checkpoints in memory.
type Memory struct {
	mu          sync.Mutex
	checkpoints map[string]replay.Checkpoint
	states      map[string]any
}

// NewMemory creates a new in-memory checkpoint store.
func NewMemory() *Memory {
	return &Memory{
		checkpoints: make(map[string]replay.Checkpoint),
		states:      make(map[string]any),
	}
}

// Get retrieves a checkpoint by encounter id.
func (m *Memory) Get(ctx context.Context, encounterID string) (replay.Checkpoint, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return replay.Checkpoint{}, err
		}
	}
	if m == nil {
		return replay.Checkpoint{}, errors.New("checkpoint store is required")
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return replay.Checkpoint{}, ErrEncounterIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	checkpoint, ok := m.checkpoints[encounterID]
	if !ok {
		return replay.Checkpoint{}, replay.ErrCheckpointNotFound
	}
	return checkpoint, nil
}

// Save persists a checkpoint.
func (m *Memory) Save(ctx context.Context, checkpoint replay.Checkpoint) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if m == nil {
		return errors.New("checkpoint store is required")
	}
	encounterID := strings.TrimSpace(checkpoint.EncounterID)
	if encounterID == "" {
		return ErrEncounterIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	checkpoint.EncounterID = encounterID
	m.checkpoints[encounterID] = checkpoint
	return nil
}

// GetState retrieves a replay state snapshot and its sequence.
func (m *Memory) GetState(ctx context.Context, encounterID string) (any, uint64, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
	}
	if m == nil {
		return nil, 0, errors.New("checkpoint store is required")
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return nil, 0, ErrEncounterIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot, ok := m.states[encounterID]
	if !ok {
		return nil, 0, replay.ErrCheckpointNotFound
	}
	checkpoint, ok := m.checkpoints[encounterID]
	if !ok {
		return nil, 0, replay.ErrCheckpointNotFound
	}

	return cloneSnapshotState(snapshot), checkpoint.LastSeq, nil
}

// SaveState persists a replay state snapshot.
func (m *Memory) SaveState(ctx context.Context, encounterID string, lastSeq uint64, state any) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if m == nil {
		return errors.New("checkpoint store is required")
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return ErrEncounterIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[encounterID] = cloneSnapshotState(state)
	m.checkpoints[encounterID] = replay.Checkpoint{
		EncounterID: encounterID,
		LastSeq:     lastSeq,
		UpdatedAt:   time.Now().UTC(),
	}
	return nil
}

func cloneSnapshotState(state any) any {
	switch typed := state.(type) {
	case aggregate.State:
		return typed.Clone()
	case *aggregate.State:
		if typed == nil {
			return aggregate.NewState()
		}
		return typed.Clone()
	default:
		return state
	}
}
