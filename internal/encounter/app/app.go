// Package app wires the encounter domain to persistence: it loads state
// from snapshots (replaying any journal tail), executes commands through
// the engine, and keeps snapshots current.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/checkpoint"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/engine"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/replay"
	"github.com/warbandtools/skirmish/internal/encounter/storage"
	"github.com/warbandtools/skirmish/internal/platform/id"
)

// replayPageSize caps how many journal events one load pulls at a time.
const replayPageSize = 200

// Service executes encounter commands and owns encounter lifecycle records.
type Service struct {
	encounters storage.EncounterStore
	events     storage.EventStore
	snapshots  storage.SnapshotStore
	handler    engine.Handler
	newID      func() (string, error)
}

// Stores bundles the persistence dependencies for a Service.
type Stores struct {
	Encounters storage.EncounterStore
	Events     storage.EventStore
	Snapshots  storage.SnapshotStore
}

// NewService builds a Service over the given stores.
func NewService(stores Stores) (*Service, error) {
	if stores.Encounters == nil {
		return nil, errors.New("encounter store is required")
	}
	if stores.Events == nil {
		return nil, errors.New("event store is required")
	}
	if stores.Snapshots == nil {
		return nil, errors.New("snapshot store is required")
	}
	registries, err := engine.NewRegistries()
	if err != nil {
		return nil, err
	}

	service := &Service{
		encounters: stores.Encounters,
		events:     stores.Events,
		snapshots:  stores.Snapshots,
		newID:      id.NewID,
	}
	service.handler = engine.Handler{
		Registries: registries,
		Journal:    journalAdapter{events: stores.Events},
		Loader:     service,
		Saver:      snapshotAdapter{snapshots: stores.Snapshots},
	}
	return service, nil
}

type journalAdapter struct {
	events storage.EventStore
}

func (j journalAdapter) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	return j.events.AppendEvent(ctx, evt)
}

type snapshotAdapter struct {
	snapshots storage.SnapshotStore
}

func (s snapshotAdapter) Save(ctx context.Context, encounterID string, lastSeq uint64, state aggregate.State) error {
	return s.snapshots.PutSnapshot(ctx, encounterID, lastSeq, state)
}

type eventListerAdapter struct {
	events storage.EventStore
}

func (e eventListerAdapter) List(ctx context.Context, encounterID string, afterSeq uint64, limit int) ([]event.Event, error) {
	return e.events.ListEvents(ctx, encounterID, afterSeq, limit)
}

type foldApplier struct{}

func (foldApplier) Apply(state any, evt event.Event) (any, error) {
	current, ok := state.(aggregate.State)
	if !ok {
		return nil, fmt.Errorf("unexpected state type %T", state)
	}
	return engine.Fold(current, evt)
}

// Load returns the current state for an encounter: the latest snapshot
// with any newer journal events folded on top. A missing snapshot means a
// full replay from sequence zero.
func (s *Service) Load(ctx context.Context, encounterID string) (aggregate.State, error) {
	state, lastSeq, err := s.snapshots.GetSnapshot(ctx, encounterID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return aggregate.State{}, err
		}
		state = aggregate.NewState()
		lastSeq = 0
	}

	result, err := replay.Replay(ctx, eventListerAdapter{events: s.events}, checkpoint.NewNoop(), foldApplier{}, encounterID, state, replay.Options{
		AfterSeq: lastSeq,
		PageSize: replayPageSize,
	})
	if err != nil {
		return aggregate.State{}, err
	}
	current, ok := result.State.(aggregate.State)
	if !ok {
		return aggregate.State{}, fmt.Errorf("unexpected replayed state type %T", result.State)
	}
	return current, nil
}

// Execute runs one command against its encounter.
func (s *Service) Execute(ctx context.Context, cmd command.Command) (engine.Result, error) {
	if _, err := s.encounters.GetEncounter(ctx, cmd.EncounterID); err != nil {
		return engine.Result{}, err
	}
	return s.handler.Execute(ctx, cmd)
}

// CreateEncounter registers a new encounter and returns its record.
func (s *Service) CreateEncounter(ctx context.Context, name string) (storage.EncounterRecord, error) {
	encounterID, err := s.newID()
	if err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("generate encounter id: %w", err)
	}
	now := time.Now().UTC()
	record := storage.EncounterRecord{
		ID:        encounterID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.encounters.PutEncounter(ctx, record); err != nil {
		return storage.EncounterRecord{}, err
	}
	return record, nil
}

// GetEncounter loads one encounter record.
func (s *Service) GetEncounter(ctx context.Context, encounterID string) (storage.EncounterRecord, error) {
	return s.encounters.GetEncounter(ctx, encounterID)
}

// ListEncounters returns all encounter records.
func (s *Service) ListEncounters(ctx context.Context) ([]storage.EncounterRecord, error) {
	return s.encounters.ListEncounters(ctx)
}
