// Package turnorder implements the encounter turn rotation: an ordered
// sequence of unit and group entries, an eligibility filter over roster
// state, a cyclic resolver with round counting, a LIFO temporary-turn
// stack for operator-granted interrupts, and a reorder engine that
// preserves the current turn across operator edits.
//
// All operations are pure functions of (state, input) -> new state. The
// package performs no locking; the surrounding action log serializes
// mutations per encounter.
package turnorder
