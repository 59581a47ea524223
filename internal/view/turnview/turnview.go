// Package turnview builds the read-side view of the turn scheduler for
// rendering: who acts now, where play resumes, and which way the tracker
// should animate. Animation direction is derived here from successive
// states, never stored in the scheduler itself.
package turnview

import (
	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

// Direction tells the tracker which way to animate a state change.
type Direction string

const (
	// DirectionNone means nothing moved.
	DirectionNone Direction = "none"
	// DirectionForward means the main rotation stepped forward.
	DirectionForward Direction = "forward"
	// DirectionInterrupt means a temporary turn was pushed.
	DirectionInterrupt Direction = "interrupt"
	// DirectionResume means a temporary turn finished and play fell back.
	DirectionResume Direction = "resume"
)

// EntryView is one rendered rotation slot or interrupt token.
type EntryView struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	// Label is the display name. Dangling interrupt tokens render
	// label-less, so this stays empty when the referent is gone.
	Label string `json:"label,omitempty"`
	// Eligible mirrors the scheduler's filter for rotation slots.
	Eligible bool `json:"eligible"`
}

// Model is the full tracker view for one encounter state.
type Model struct {
	Round          int         `json:"round"`
	TurnIndex      int         `json:"turn_index"`
	InterruptDepth int         `json:"interrupt_depth"`
	Current        *EntryView  `json:"current,omitempty"`
	Resume         *EntryView  `json:"resume,omitempty"`
	Order          []EntryView `json:"order"`
	Direction      Direction   `json:"direction"`
}

// DiffDirection classifies the transition between two successive states.
// Interrupt stack changes win over index movement: popping a temp turn
// moves the highlight even when the main index is unchanged.
func DiffDirection(before, after aggregate.State) Direction {
	switch {
	case len(after.Scheduler.TempStack) > len(before.Scheduler.TempStack):
		return DirectionInterrupt
	case len(after.Scheduler.TempStack) < len(before.Scheduler.TempStack):
		return DirectionResume
	case after.Scheduler.Round != before.Scheduler.Round,
		after.Scheduler.TurnIndex != before.Scheduler.TurnIndex:
		return DirectionForward
	}
	return DirectionNone
}

func entryView(entry turnorder.Entry, state aggregate.State) EntryView {
	view := EntryView{Kind: string(entry.Kind), ID: entry.ID}
	switch entry.Kind {
	case turnorder.EntryKindUnit:
		if unit, ok := state.Units[entry.ID]; ok {
			view.Label = unit.ID
			view.Eligible = turnorder.IsUnitEligible(unit)
		}
	case turnorder.EntryKindGroup:
		if group, ok := state.Groups[entry.ID]; ok {
			view.Label = group.Name
			if view.Label == "" {
				view.Label = group.ID
			}
			view.Eligible = turnorder.IsGroupEligible(group, state.Units)
		}
	}
	return view
}

// Build renders the tracker model for after, animated relative to before.
func Build(before, after aggregate.State) Model {
	model := Model{
		Round:          after.Scheduler.Round,
		TurnIndex:      after.Scheduler.TurnIndex,
		InterruptDepth: len(after.Scheduler.TempStack),
		Order:          make([]EntryView, 0, len(after.Scheduler.Entries)),
		Direction:      DiffDirection(before, after),
	}

	for _, entry := range after.Scheduler.Entries {
		model.Order = append(model.Order, entryView(entry, after))
	}

	if current, ok := after.CurrentEntry(); ok {
		view := entryView(current, after)
		model.Current = &view
	}
	if resume, ok := after.ResumeTarget(); ok {
		view := entryView(resume, after)
		model.Resume = &view
	}
	return model
}

// Snapshot renders the tracker model with no transition animation.
func Snapshot(state aggregate.State) Model {
	return Build(state, state)
}
