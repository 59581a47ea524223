// Package storage defines the persistence interfaces for encounters, the
// event journal, and replay snapshots.
package storage

import (
	"context"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	apperrors "github.com/warbandtools/skirmish/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// EncounterRecord captures encounter metadata that APIs read.
type EncounterRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EncounterStore owns encounter lifecycle records.
type EncounterStore interface {
	PutEncounter(ctx context.Context, record EncounterRecord) error
	GetEncounter(ctx context.Context, id string) (EncounterRecord, error)
	ListEncounters(ctx context.Context) ([]EncounterRecord, error)
}

// EventStore owns the append-only encounter event journal. Sequence
// numbers are assigned at append time and are contiguous per encounter.
type EventStore interface {
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	ListEvents(ctx context.Context, encounterID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// SnapshotStore owns replayed-state snapshots keyed by encounter.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, encounterID string, lastSeq uint64, state aggregate.State) error
	GetSnapshot(ctx context.Context, encounterID string) (aggregate.State, uint64, error)
}
