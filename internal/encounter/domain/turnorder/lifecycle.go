package turnorder

// AppendUnitEntry appends a bare entry for a freshly created unit. A unit
// already present in the rotation is left alone.
func AppendUnitEntry(state State, unitID string) State {
	for _, entry := range state.Entries {
		if entry.Kind == EntryKindUnit && entry.ID == unitID {
			return state
		}
	}
	next := state.clone()
	next.Entries = append(next.Entries, UnitEntry(unitID))
	return next
}

// AppendGroupEntry appends an entry for a freshly created group.
func AppendGroupEntry(state State, groupID string) State {
	for _, entry := range state.Entries {
		if entry.Kind == EntryKindGroup && entry.ID == groupID {
			return state
		}
	}
	next := state.clone()
	next.Entries = append(next.Entries, GroupEntry(groupID))
	return next
}

// RemoveUnit drops the unit's bare rotation entries. Interrupt tokens that
// reference the unit stay on the stack and pop in order; they simply render
// without a label once the unit is gone.
func RemoveUnit(state State, unitID string) State {
	return removeEntries(state, func(entry Entry) bool {
		return entry.Kind == EntryKindUnit && entry.ID == unitID
	})
}

// RemoveGroup drops the group's rotation entries. Stack tokens referencing
// the group are kept, matching unit deletion.
func RemoveGroup(state State, groupID string) State {
	return removeEntries(state, func(entry Entry) bool {
		return entry.Kind == EntryKindGroup && entry.ID == groupID
	})
}

// removeEntries filters the rotation while keeping TurnIndex pointed at the
// same entry where possible. When the current entry itself is removed the
// index lands on its successor, so the next resolve continues from there.
func removeEntries(state State, drop func(Entry) bool) State {
	kept := make([]Entry, 0, len(state.Entries))
	newIndex := state.TurnIndex
	for idx, entry := range state.Entries {
		if drop(entry) {
			if idx < state.TurnIndex {
				newIndex--
			}
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) == 0 {
		newIndex = 0
	} else if newIndex >= len(kept) {
		newIndex = 0
	} else if newIndex < 0 {
		newIndex = 0
	}

	next := state.clone()
	if len(kept) == 0 {
		next.Entries = nil
	} else {
		next.Entries = kept
	}
	next.TurnIndex = newIndex
	return next
}
