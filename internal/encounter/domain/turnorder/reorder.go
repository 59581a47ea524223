package turnorder

import (
	apperrors "github.com/warbandtools/skirmish/internal/platform/errors"
)

var (
	// ErrEntryUnknownRef indicates a new entry references an id absent from
	// both the live unit set and the new group set.
	ErrEntryUnknownRef = apperrors.New(apperrors.CodeTurnEntryUnknownRef, "turn entry references an unknown unit or group")
	// ErrEntryDuplicateUnit indicates the same unit appears as two bare entries.
	ErrEntryDuplicateUnit = apperrors.New(apperrors.CodeTurnEntryDuplicateUnit, "unit appears more than once in the turn order")
)

// DisabledChange flips one unit's turn-disabled flag as part of a reorder
// batch.
type DisabledChange struct {
	UnitID       string
	TurnDisabled bool
}

// ApplyReorder replaces the rotation and group set with an operator edit.
//
// Validation is all-or-nothing: entries must reference units in the live
// unit set or groups in newGroups, and no unit may appear twice as a bare
// entry. Additions and removals relative to the previous rotation are
// accepted; the engine reconciles against the live universe rather than
// requiring an exact permutation. Bare entries for units that belong to a
// group in newGroups are stripped, keeping group membership authoritative.
//
// The entry that was current before the edit keeps the turn: "current" is
// resolved under oldGroups, located in the new rotation, and its new
// position becomes TurnIndex. When it no longer exists, TurnIndex resets
// to 0. Disabled changes are applied to a copy of the unit set; ids that
// resolve to no unit are skipped as soft data.
func ApplyReorder(state State, units map[string]Unit, oldGroups map[string]Group, newEntries []Entry, newGroups []Group, disabled []DisabledChange) (State, map[string]Unit, error) {
	groupSet := make(map[string]Group, len(newGroups))
	for _, group := range newGroups {
		groupSet[group.ID] = group
	}
	grouped := groupedUnitIDs(groupSet)

	kept := make([]Entry, 0, len(newEntries))
	seenUnits := make(map[string]bool, len(newEntries))
	for _, entry := range newEntries {
		switch entry.Kind {
		case EntryKindUnit:
			if _, ok := units[entry.ID]; !ok {
				return State{}, nil, apperrors.WithMetadata(apperrors.CodeTurnEntryUnknownRef,
					"turn entry references an unknown unit",
					map[string]string{"unit_id": entry.ID})
			}
			if grouped[entry.ID] {
				continue
			}
			if seenUnits[entry.ID] {
				return State{}, nil, apperrors.WithMetadata(apperrors.CodeTurnEntryDuplicateUnit,
					"unit appears more than once in the turn order",
					map[string]string{"unit_id": entry.ID})
			}
			seenUnits[entry.ID] = true
		case EntryKindGroup:
			if _, ok := groupSet[entry.ID]; !ok {
				return State{}, nil, apperrors.WithMetadata(apperrors.CodeTurnEntryUnknownRef,
					"turn entry references an unknown group",
					map[string]string{"group_id": entry.ID})
			}
		default:
			return State{}, nil, apperrors.New(apperrors.CodeTurnEntryInvalidKind, "turn entry kind must be unit or group")
		}
		kept = append(kept, entry)
	}

	// Locate the pre-edit current entry before eligibility flips from the
	// disabled batch can change what "current" resolves to.
	current, hasCurrent := ResolveCurrent(state, units, oldGroups, "")

	next := state.clone()
	next.Entries = kept
	next.TurnIndex = 0
	if hasCurrent {
		for idx, entry := range kept {
			if entry == current {
				next.TurnIndex = idx
				break
			}
		}
	}

	updatedUnits := make(map[string]Unit, len(units))
	for id, unit := range units {
		updatedUnits[id] = unit
	}
	for _, change := range disabled {
		unit, ok := updatedUnits[change.UnitID]
		if !ok {
			continue
		}
		unit.TurnDisabled = change.TurnDisabled
		updatedUnits[change.UnitID] = unit
	}

	return next, updatedUnits, nil
}
