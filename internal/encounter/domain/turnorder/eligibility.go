package turnorder

// IsUnitEligible reports whether a unit may hold the current turn: on the
// field, of normal kind, and not turn-disabled.
func IsUnitEligible(unit Unit) bool {
	return unit.Bench == BenchNone && unit.Kind == UnitKindNormal && !unit.TurnDisabled
}

// IsGroupEligible reports whether at least one group member resolves to an
// eligible unit. Member ids that resolve to no unit are ignored.
func IsGroupEligible(group Group, units map[string]Unit) bool {
	for _, memberID := range group.MemberUnitIDs {
		unit, ok := units[memberID]
		if !ok {
			continue
		}
		if IsUnitEligible(unit) {
			return true
		}
	}
	return false
}

// groupedUnitIDs collects every unit id that belongs to some group. Units
// in this set are suppressed as bare rotation entries.
func groupedUnitIDs(groups map[string]Group) map[string]bool {
	grouped := make(map[string]bool)
	for _, group := range groups {
		for _, memberID := range group.MemberUnitIDs {
			grouped[memberID] = true
		}
	}
	return grouped
}

// entryEligible reports whether a rotation entry may hold the current turn.
// Dangling references are ineligible, never errors.
func entryEligible(entry Entry, units map[string]Unit, groups map[string]Group, grouped map[string]bool) bool {
	switch entry.Kind {
	case EntryKindUnit:
		if grouped[entry.ID] {
			return false
		}
		unit, ok := units[entry.ID]
		if !ok {
			return false
		}
		return IsUnitEligible(unit)
	case EntryKindGroup:
		group, ok := groups[entry.ID]
		if !ok {
			return false
		}
		return IsGroupEligible(group, units)
	default:
		return false
	}
}
