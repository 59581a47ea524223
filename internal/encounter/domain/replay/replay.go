// Package replay rebuilds encounter state from the event journal, paging
// through events in sequence order and persisting checkpoints as it goes.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

const defaultPageSize = 200

var (
	// ErrJournalRequired indicates a missing event journal.
	ErrJournalRequired = errors.New("event journal is required")
	// ErrCheckpointStoreRequired indicates a missing checkpoint store.
	ErrCheckpointStoreRequired = errors.New("checkpoint store is required")
	// ErrApplierRequired indicates a missing applier.
	ErrApplierRequired = errors.New("applier is required")
	// ErrEncounterIDRequired indicates a missing encounter id.
	ErrEncounterIDRequired = errors.New("encounter id is required")
	// ErrCheckpointNotFound indicates no checkpoint exists yet.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// EventLister lists journal events for replay.
type EventLister interface {
	List(ctx context.Context, encounterID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// CheckpointStore manages replay checkpoints.
type CheckpointStore interface {
	Get(ctx context.Context, encounterID string) (Checkpoint, error)
	Save(ctx context.Context, checkpoint Checkpoint) error
}

// Applier applies a journal event to replayed state.
type Applier interface {
	Apply(state any, evt event.Event) (any, error)
}

// Checkpoint captures the last applied sequence for an encounter.
type Checkpoint struct {
	EncounterID string
	LastSeq     uint64
	UpdatedAt   time.Time
}

// Options configures replay behavior.
type Options struct {
	AfterSeq uint64
	UntilSeq uint64
	PageSize int
}

// Result captures replay outcomes.
type Result struct {
	State   any
	LastSeq uint64
	Applied int
}

// Replay folds journal events into state in order, stopping on the first
// sequence gap, and saves a checkpoint after each applied event.
func Replay(ctx context.Context, journal EventLister, checkpoints CheckpointStore, applier Applier, encounterID string, state any, options Options) (Result, error) {
	if journal == nil {
		return Result{}, ErrJournalRequired
	}
	if checkpoints == nil {
		return Result{}, ErrCheckpointStoreRequired
	}
	if applier == nil {
		return Result{}, ErrApplierRequired
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return Result{}, ErrEncounterIDRequired
	}

	checkpointSeq := uint64(0)
	checkpoint, err := checkpoints.Get(ctx, encounterID)
	if err != nil {
		if !errors.Is(err, ErrCheckpointNotFound) {
			return Result{}, err
		}
	} else {
		checkpointSeq = checkpoint.LastSeq
	}

	lastSeq := options.AfterSeq
	if checkpointSeq > lastSeq {
		lastSeq = checkpointSeq
	}
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := Result{State: state, LastSeq: lastSeq}
	for {
		events, err := journal.List(ctx, encounterID, result.LastSeq, pageSize)
		if err != nil {
			return result, err
		}
		if len(events) == 0 {
			return result, nil
		}
		for _, evt := range events {
			if options.UntilSeq > 0 && evt.Seq > options.UntilSeq {
				return result, nil
			}
			expectedSeq := result.LastSeq + 1
			if evt.Seq != expectedSeq {
				return result, fmt.Errorf("event sequence gap: expected %d got %d", expectedSeq, evt.Seq)
			}
			nextState, err := applier.Apply(result.State, evt)
			if err != nil {
				return result, err
			}
			result.State = nextState
			result.LastSeq = evt.Seq
			result.Applied++
			if err := checkpoints.Save(ctx, Checkpoint{EncounterID: encounterID, LastSeq: result.LastSeq, UpdatedAt: time.Now().UTC()}); err != nil {
				return result, err
			}
		}
	}
}
