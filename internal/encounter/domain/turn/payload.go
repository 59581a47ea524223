package turn

import "github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"

// GroupSpec is the wire form of a turn group inside an order edit.
type GroupSpec struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	MemberUnitIDs []string `json:"member_unit_ids,omitempty"`
}

// DisabledChangeSpec is the wire form of one turn-disabled flip in an
// order edit batch.
type DisabledChangeSpec struct {
	UnitID       string `json:"unit_id"`
	TurnDisabled bool   `json:"turn_disabled"`
}

// OrderSetPayload captures the payload for turn.order_set commands and
// events: the full replacement rotation, group set, and disabled batch.
type OrderSetPayload struct {
	Entries         []turnorder.Entry    `json:"entries"`
	Groups          []GroupSpec          `json:"groups,omitempty"`
	DisabledChanges []DisabledChangeSpec `json:"disabled_changes,omitempty"`
}

// AdvancePayload captures the payload for turn.advanced events. The
// command carries no payload; the event records what the step did so
// downstream consumers need not replay to render it.
type AdvancePayload struct {
	PoppedInterrupt  bool `json:"popped_interrupt,omitempty"`
	RoundIncremented bool `json:"round_incremented,omitempty"`
	TurnIndex        int  `json:"turn_index"`
	Round            int  `json:"round"`
}

// TempGrantPayload captures the payload for turn.temp_grant commands and
// turn.temp_granted events.
type TempGrantPayload struct {
	Target turnorder.Token `json:"target"`
}

// DisabledSetPayload captures the payload for turn.disabled_set commands
// and events.
type DisabledSetPayload struct {
	UnitID       string `json:"unit_id"`
	TurnDisabled bool   `json:"turn_disabled"`
}
