package turnorder

// AdvanceResult reports what a single Advance call did.
type AdvanceResult struct {
	// Moved is false when no eligible entry exists anywhere; the call was
	// a no-op and callers should disable the advance control.
	Moved bool
	// PoppedInterrupt is true when the call consumed one temporary turn
	// instead of moving the main rotation.
	PoppedInterrupt bool
	// RoundIncremented is true when the forward scan wrapped past the end
	// of the rotation.
	RoundIncremented bool
}

// ResolveCurrent returns the current eligible entry of the main rotation.
//
// With a non-empty explicitID naming a currently-eligible entry, that entry
// is returned directly; this is the fast path for callers that track the
// current unit themselves. Otherwise the rotation is scanned forward
// circularly from TurnIndex, at most one full cycle. The second return is
// false when no entry is eligible.
func ResolveCurrent(state State, units map[string]Unit, groups map[string]Group, explicitID string) (Entry, bool) {
	if len(state.Entries) == 0 {
		return Entry{}, false
	}
	grouped := groupedUnitIDs(groups)

	if explicitID != "" {
		for _, entry := range state.Entries {
			if entry.ID == explicitID && entryEligible(entry, units, groups, grouped) {
				return entry, true
			}
		}
	}

	count := len(state.Entries)
	for step := 0; step < count; step++ {
		idx := (state.TurnIndex + step) % count
		entry := state.Entries[idx]
		if entryEligible(entry, units, groups, grouped) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Advance moves the scheduler one turn forward.
//
// While temporary turns are outstanding it pops exactly one stack level and
// leaves TurnIndex and Round untouched. Otherwise it scans forward,
// wrapping, for the next eligible entry strictly after the current slot and
// increments Round when the scan wraps past the end. When nothing is
// eligible the state is returned unchanged.
func Advance(state State, units map[string]Unit, groups map[string]Group) (State, AdvanceResult) {
	if len(state.TempStack) > 0 {
		next := state.clone()
		next.TempStack = next.TempStack[:len(next.TempStack)-1]
		if len(next.TempStack) == 0 {
			next.TempStack = nil
		}
		return next, AdvanceResult{Moved: true, PoppedInterrupt: true}
	}

	count := len(state.Entries)
	if count == 0 {
		return state, AdvanceResult{}
	}

	grouped := groupedUnitIDs(groups)
	for step := 1; step <= count; step++ {
		idx := (state.TurnIndex + step) % count
		entry := state.Entries[idx]
		if !entryEligible(entry, units, groups, grouped) {
			continue
		}
		next := state.clone()
		next.TurnIndex = idx
		wrapped := state.TurnIndex+step >= count
		if wrapped {
			next.Round++
		}
		return next, AdvanceResult{Moved: true, RoundIncremented: wrapped}
	}
	return state, AdvanceResult{}
}
