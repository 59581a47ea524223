package turnorder

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/warbandtools/skirmish/internal/platform/errors"
)

// Bench places a unit off the field on one of the two side benches.
type Bench string

const (
	// BenchNone means the unit is on the field.
	BenchNone Bench = ""
	// BenchTeam parks the unit on the team bench.
	BenchTeam Bench = "team"
	// BenchEnemy parks the unit on the enemy bench.
	BenchEnemy Bench = "enemy"
)

// UnitKind classifies a unit for turn scheduling purposes.
type UnitKind string

const (
	// UnitKindNormal units take regular turns.
	UnitKindNormal UnitKind = "normal"
	// UnitKindServant units act on their summoner's turn and never hold one.
	UnitKindServant UnitKind = "servant"
	// UnitKindBuilding units are static and never hold a turn.
	UnitKindBuilding UnitKind = "building"
)

// Unit carries the roster fields the scheduler reads.
type Unit struct {
	ID           string
	Bench        Bench
	Kind         UnitKind
	TurnDisabled bool
}

// Group is a named set of units that share one rotation slot.
type Group struct {
	ID            string
	Name          string
	MemberUnitIDs []string
}

// EntryKind discriminates the two entry variants.
type EntryKind string

const (
	// EntryKindUnit references a single unit.
	EntryKindUnit EntryKind = "unit"
	// EntryKindGroup references a unit group.
	EntryKindGroup EntryKind = "group"
)

// IsValid reports whether the kind is one of the two known variants.
func (k EntryKind) IsValid() bool {
	return k == EntryKindUnit || k == EntryKindGroup
}

// Entry is one slot in the turn rotation, referencing a unit or a group.
// The kind is decided once when an entry is decoded; downstream code never
// re-inspects payload shapes.
type Entry struct {
	Kind EntryKind
	ID   string
}

// UnitEntry builds a unit entry.
func UnitEntry(unitID string) Entry {
	return Entry{Kind: EntryKindUnit, ID: unitID}
}

// GroupEntry builds a group entry.
func GroupEntry(groupID string) Entry {
	return Entry{Kind: EntryKindGroup, ID: groupID}
}

// Token references a unit or group outside the normal rotation. It is
// structurally an Entry but lives on the temporary-turn stack.
type Token Entry

// UnitToken builds a unit interrupt token.
func UnitToken(unitID string) Token {
	return Token{Kind: EntryKindUnit, ID: unitID}
}

// GroupToken builds a group interrupt token.
func GroupToken(groupID string) Token {
	return Token{Kind: EntryKindGroup, ID: groupID}
}

// Entry converts the token back into rotation-entry form for display.
func (t Token) Entry() Entry {
	return Entry(t)
}

// State is the scheduler state for one encounter.
type State struct {
	// Entries is the canonical rotation order, independent of eligibility.
	Entries []Entry
	// TurnIndex points at the current main-rotation slot. It stays within
	// [0, len(Entries)) whenever Entries is non-empty.
	TurnIndex int
	// Round counts full forward wraps of the main rotation, starting at 1.
	Round int
	// TempStack holds outstanding operator-granted interrupts, top last.
	TempStack []Token
}

// NewState returns the scheduler state for a fresh encounter.
func NewState() State {
	return State{Round: 1}
}

type entryWire struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// MarshalJSON encodes the entry in its canonical wire form.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryWire{Kind: string(e.Kind), ID: e.ID})
}

// UnmarshalJSON decodes the canonical wire form. Unknown kinds and empty
// ids are rejected here so nothing downstream has to sniff shapes.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var wire entryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode turn entry: %w", err)
	}
	kind := EntryKind(strings.TrimSpace(wire.Kind))
	if !kind.IsValid() {
		return apperrors.WithMetadata(apperrors.CodeTurnEntryInvalidKind,
			"turn entry kind must be unit or group",
			map[string]string{"kind": wire.Kind})
	}
	id := strings.TrimSpace(wire.ID)
	if id == "" {
		return apperrors.New(apperrors.CodeTurnEntryIDRequired, "turn entry id is required")
	}
	*e = Entry{Kind: kind, ID: id}
	return nil
}

// MarshalJSON encodes the token in the same wire form as entries.
func (t Token) MarshalJSON() ([]byte, error) {
	return Entry(t).MarshalJSON()
}

// UnmarshalJSON decodes the token using the strict entry rules.
func (t *Token) UnmarshalJSON(data []byte) error {
	var entry Entry
	if err := entry.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Token(entry)
	return nil
}

// clone returns a deep copy so callers can treat states as values.
func (s State) clone() State {
	cloned := s
	if s.Entries != nil {
		cloned.Entries = append([]Entry(nil), s.Entries...)
	}
	if s.TempStack != nil {
		cloned.TempStack = append([]Token(nil), s.TempStack...)
	}
	return cloned
}
