package roster

import (
	"encoding/json"
	"fmt"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

// FoldHandledTypes returns the event types handled by the roster fold.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		event.TypeUnitCreated,
		event.TypeUnitUpdated,
		event.TypeUnitDeleted,
		event.TypeGroupCreated,
		event.TypeGroupDeleted,
	}
}

// Fold applies a roster event to encounter state. Creation appends a slot
// to the rotation; deletion removes the entity's slots and its group
// memberships. Interrupt tokens survive deletion and pop in order.
func Fold(state aggregate.State, evt event.Event) (aggregate.State, error) {
	next := state.Clone()
	switch evt.Type {
	case event.TypeUnitCreated:
		var payload UnitCreatePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("roster fold %s: %w", evt.Type, err)
		}
		next.Units[payload.UnitID] = turnorder.Unit{
			ID:    payload.UnitID,
			Bench: turnorder.Bench(payload.Bench),
			Kind:  turnorder.UnitKind(payload.Kind),
		}
		next.Scheduler = turnorder.AppendUnitEntry(next.Scheduler, payload.UnitID)

	case event.TypeUnitUpdated:
		var payload UnitUpdatePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("roster fold %s: %w", evt.Type, err)
		}
		unit, ok := next.Units[payload.UnitID]
		if !ok {
			// Replays tolerate updates to since-deleted units.
			return next, nil
		}
		unit.Bench = turnorder.Bench(payload.Bench)
		unit.Kind = turnorder.UnitKind(payload.Kind)
		next.Units[payload.UnitID] = unit

	case event.TypeUnitDeleted:
		var payload UnitDeletePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("roster fold %s: %w", evt.Type, err)
		}
		delete(next.Units, payload.UnitID)
		for groupID, group := range next.Groups {
			kept := group.MemberUnitIDs[:0:0]
			for _, memberID := range group.MemberUnitIDs {
				if memberID != payload.UnitID {
					kept = append(kept, memberID)
				}
			}
			group.MemberUnitIDs = kept
			next.Groups[groupID] = group
		}
		next.Scheduler = turnorder.RemoveUnit(next.Scheduler, payload.UnitID)

	case event.TypeGroupCreated:
		var payload GroupCreatePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("roster fold %s: %w", evt.Type, err)
		}
		next.Groups[payload.GroupID] = turnorder.Group{
			ID:            payload.GroupID,
			Name:          payload.Name,
			MemberUnitIDs: append([]string(nil), payload.MemberUnitIDs...),
		}
		next.Scheduler = turnorder.AppendGroupEntry(next.Scheduler, payload.GroupID)

	case event.TypeGroupDeleted:
		var payload GroupDeletePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("roster fold %s: %w", evt.Type, err)
		}
		delete(next.Groups, payload.GroupID)
		next.Scheduler = turnorder.RemoveGroup(next.Scheduler, payload.GroupID)
	}
	return next, nil
}
