// Package aggregate defines the replayed encounter state shared by the
// roster and turn deciders.
package aggregate

import "github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"

// State is the full replayable state of one encounter: the live unit and
// group registries plus the turn scheduler.
type State struct {
	Units     map[string]turnorder.Unit
	Groups    map[string]turnorder.Group
	Scheduler turnorder.State
}

// NewState returns the state of a freshly started encounter.
func NewState() State {
	return State{
		Units:     make(map[string]turnorder.Unit),
		Groups:    make(map[string]turnorder.Group),
		Scheduler: turnorder.NewState(),
	}
}

// Clone returns a deep copy so snapshots and forks never alias live state.
func (s State) Clone() State {
	cloned := s
	if s.Units != nil {
		cloned.Units = make(map[string]turnorder.Unit, len(s.Units))
		for id, unit := range s.Units {
			cloned.Units[id] = unit
		}
	}
	if s.Groups != nil {
		cloned.Groups = make(map[string]turnorder.Group, len(s.Groups))
		for id, group := range s.Groups {
			cloned.Groups[id] = group
			if group.MemberUnitIDs != nil {
				copied := group
				copied.MemberUnitIDs = append([]string(nil), group.MemberUnitIDs...)
				cloned.Groups[id] = copied
			}
		}
	}
	if s.Scheduler.Entries != nil {
		cloned.Scheduler.Entries = append([]turnorder.Entry(nil), s.Scheduler.Entries...)
	}
	if s.Scheduler.TempStack != nil {
		cloned.Scheduler.TempStack = append([]turnorder.Token(nil), s.Scheduler.TempStack...)
	}
	return cloned
}

// CurrentEntry resolves whose turn it is under this state.
func (s State) CurrentEntry() (turnorder.Entry, bool) {
	return turnorder.CurrentEntry(s.Scheduler, s.Units, s.Groups)
}

// ResumeTarget resolves the entry play returns to once pending temporary
// turns are exhausted.
func (s State) ResumeTarget() (turnorder.Entry, bool) {
	return turnorder.ResumeTarget(s.Scheduler, s.Units, s.Groups)
}
