package turn

import (
	"encoding/json"
	"fmt"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

// FoldHandledTypes returns the event types handled by the turn fold.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		event.TypeTurnOrderSet,
		event.TypeTurnAdvanced,
		event.TypeTurnTempGranted,
		event.TypeTurnDisabledSet,
	}
}

// Fold applies a turn event to encounter state. Order edits re-run the
// reorder engine; a decision that was accepted against the same state
// always folds cleanly, so a reorder failure here means the journal and
// the fold disagree and the replay must stop.
func Fold(state aggregate.State, evt event.Event) (aggregate.State, error) {
	next := state.Clone()
	switch evt.Type {
	case event.TypeTurnOrderSet:
		var payload OrderSetPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("turn fold %s: %w", evt.Type, err)
		}
		scheduler, units, err := turnorder.ApplyReorder(
			next.Scheduler, next.Units, next.Groups,
			payload.Entries, groupsFromSpecs(payload.Groups), disabledFromSpecs(payload.DisabledChanges))
		if err != nil {
			return state, fmt.Errorf("turn fold %s: %w", evt.Type, err)
		}
		next.Scheduler = scheduler
		next.Units = units
		next.Groups = make(map[string]turnorder.Group, len(payload.Groups))
		for _, group := range groupsFromSpecs(payload.Groups) {
			next.Groups[group.ID] = group
		}

	case event.TypeTurnAdvanced:
		scheduler, _ := turnorder.Advance(next.Scheduler, next.Units, next.Groups)
		next.Scheduler = scheduler

	case event.TypeTurnTempGranted:
		var payload TempGrantPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("turn fold %s: %w", evt.Type, err)
		}
		next.Scheduler = turnorder.GrantTempTurn(next.Scheduler, payload.Target)

	case event.TypeTurnDisabledSet:
		var payload DisabledSetPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("turn fold %s: %w", evt.Type, err)
		}
		unit, ok := next.Units[payload.UnitID]
		if !ok {
			// Soft data: the unit was deleted after the flip was journaled.
			return next, nil
		}
		unit.TurnDisabled = payload.TurnDisabled
		next.Units[payload.UnitID] = unit
	}
	return next, nil
}
