// Package journal defines the append-only event journal contract and an
// in-memory implementation used by tests and single-process deployments.
package journal

import (
	"context"
	"errors"

	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

// ErrEncounterIDRequired indicates an append or read without an encounter id.
var ErrEncounterIDRequired = errors.New("encounter id is required")

// Journal is an ordered, append-only event log scoped per encounter.
// Sequence numbers are assigned at append time, start at 1, and are
// contiguous within one encounter.
type Journal interface {
	Append(ctx context.Context, evt event.Event) (event.Event, error)
	List(ctx context.Context, encounterID string, afterSeq uint64, limit int) ([]event.Event, error)
}
