package turnorder

// GrantTempTurn pushes an interrupt token for the target. No eligibility
// check happens at grant time; the grant is an explicit operator override.
func GrantTempTurn(state State, target Token) State {
	next := state.clone()
	next.TempStack = append(next.TempStack, target)
	return next
}

// CurrentEntry returns whose turn it is right now. While the temporary
// stack is non-empty the top token wins regardless of TurnIndex, even when
// it references a deleted unit or group (the display layer renders those
// without a label). Otherwise the main rotation is resolved.
func CurrentEntry(state State, units map[string]Unit, groups map[string]Group) (Entry, bool) {
	if n := len(state.TempStack); n > 0 {
		return state.TempStack[n-1].Entry(), true
	}
	return ResolveCurrent(state, units, groups, "")
}

// ResumeTarget returns the entry play returns to once the temporary stack
// drains: with one outstanding interrupt, the main-rotation entry at
// TurnIndex; with nested interrupts, the next-outer token. The second
// return is false when no temporary turn is outstanding.
func ResumeTarget(state State, units map[string]Unit, groups map[string]Group) (Entry, bool) {
	switch n := len(state.TempStack); {
	case n == 0:
		return Entry{}, false
	case n == 1:
		if len(state.Entries) == 0 {
			return Entry{}, false
		}
		return state.Entries[state.TurnIndex], true
	default:
		return state.TempStack[n-2].Entry(), true
	}
}
