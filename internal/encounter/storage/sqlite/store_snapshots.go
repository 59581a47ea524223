package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
	"github.com/warbandtools/skirmish/internal/encounter/storage"
)

type unitWire struct {
	ID           string `json:"id"`
	Bench        string `json:"bench,omitempty"`
	Kind         string `json:"kind"`
	TurnDisabled bool   `json:"turn_disabled,omitempty"`
}

type groupWire struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	MemberUnitIDs []string `json:"member_unit_ids,omitempty"`
}

type schedulerWire struct {
	Entries   []turnorder.Entry `json:"entries"`
	TurnIndex int               `json:"turn_index"`
	Round     int               `json:"round"`
	TempStack []turnorder.Token `json:"temp_stack,omitempty"`
}

type stateWire struct {
	Units     map[string]unitWire  `json:"units"`
	Groups    map[string]groupWire `json:"groups"`
	Scheduler schedulerWire        `json:"scheduler"`
}

func encodeState(state aggregate.State) ([]byte, error) {
	wire := stateWire{
		Units:  make(map[string]unitWire, len(state.Units)),
		Groups: make(map[string]groupWire, len(state.Groups)),
		Scheduler: schedulerWire{
			Entries:   state.Scheduler.Entries,
			TurnIndex: state.Scheduler.TurnIndex,
			Round:     state.Scheduler.Round,
			TempStack: state.Scheduler.TempStack,
		},
	}
	for id, unit := range state.Units {
		wire.Units[id] = unitWire{
			ID:           unit.ID,
			Bench:        string(unit.Bench),
			Kind:         string(unit.Kind),
			TurnDisabled: unit.TurnDisabled,
		}
	}
	for id, group := range state.Groups {
		wire.Groups[id] = groupWire{ID: group.ID, Name: group.Name, MemberUnitIDs: group.MemberUnitIDs}
	}
	return json.Marshal(wire)
}

func decodeState(data []byte) (aggregate.State, error) {
	var wire stateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return aggregate.State{}, fmt.Errorf("decode state snapshot: %w", err)
	}
	state := aggregate.NewState()
	for id, unit := range wire.Units {
		state.Units[id] = turnorder.Unit{
			ID:           unit.ID,
			Bench:        turnorder.Bench(unit.Bench),
			Kind:         turnorder.UnitKind(unit.Kind),
			TurnDisabled: unit.TurnDisabled,
		}
	}
	for id, group := range wire.Groups {
		state.Groups[id] = turnorder.Group{ID: group.ID, Name: group.Name, MemberUnitIDs: group.MemberUnitIDs}
	}
	state.Scheduler = turnorder.State{
		Entries:   wire.Scheduler.Entries,
		TurnIndex: wire.Scheduler.TurnIndex,
		Round:     wire.Scheduler.Round,
		TempStack: wire.Scheduler.TempStack,
	}
	if state.Scheduler.Round == 0 {
		state.Scheduler.Round = 1
	}
	return state, nil
}

// PutSnapshot persists the replayed state for an encounter.
func (s *Store) PutSnapshot(ctx context.Context, encounterID string, lastSeq uint64, state aggregate.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return fmt.Errorf("encounter id is required")
	}

	stateJSON, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO snapshots (encounter_id, last_seq, state_json, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(encounter_id) DO UPDATE SET
    last_seq = excluded.last_seq,
    state_json = excluded.state_json,
    updated_at = excluded.updated_at`,
		encounterID, int64(lastSeq), stateJSON, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads the replayed state and its last applied sequence.
func (s *Store) GetSnapshot(ctx context.Context, encounterID string) (aggregate.State, uint64, error) {
	if err := ctx.Err(); err != nil {
		return aggregate.State{}, 0, err
	}
	if s == nil || s.sqlDB == nil {
		return aggregate.State{}, 0, fmt.Errorf("storage is not configured")
	}

	var lastSeq int64
	var stateJSON []byte
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT last_seq, state_json FROM snapshots WHERE encounter_id = ?", strings.TrimSpace(encounterID)).
		Scan(&lastSeq, &stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return aggregate.State{}, 0, storage.ErrNotFound
	}
	if err != nil {
		return aggregate.State{}, 0, fmt.Errorf("get snapshot: %w", err)
	}

	state, err := decodeState(stateJSON)
	if err != nil {
		return aggregate.State{}, 0, err
	}
	return state, uint64(lastSeq), nil
}
