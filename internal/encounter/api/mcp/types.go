// Package mcp exposes the encounter scheduler as MCP tools so agent
// clients can run encounters over stdio.
package mcp

import "github.com/warbandtools/skirmish/internal/view/turnview"

// EncounterCreateInput creates a new encounter.
type EncounterCreateInput struct {
	Name string `json:"name,omitempty" jsonschema:"display name for the encounter"`
}

// EncounterCreateResult reports the created encounter.
type EncounterCreateResult struct {
	ID        string `json:"id" jsonschema:"encounter identifier"`
	Name      string `json:"name" jsonschema:"encounter name"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp when the encounter was created"`
}

// EncounterListInput lists encounters. It carries no parameters.
type EncounterListInput struct{}

// EncounterListEntry is one encounter in a listing.
type EncounterListEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// EncounterListResult reports all encounters.
type EncounterListResult struct {
	Encounters []EncounterListEntry `json:"encounters"`
}

// UnitCreateInput registers a unit with an encounter.
type UnitCreateInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
	UnitID      string `json:"unit_id" jsonschema:"unit identifier"`
	Bench       string `json:"bench,omitempty" jsonschema:"bench placement (empty for on-field, team, enemy)"`
	Kind        string `json:"kind,omitempty" jsonschema:"unit kind (normal, servant, building); defaults to normal"`
}

// UnitUpdateInput changes a unit's scheduling fields.
type UnitUpdateInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
	UnitID      string `json:"unit_id" jsonschema:"unit identifier"`
	Bench       string `json:"bench,omitempty" jsonschema:"bench placement (empty for on-field, team, enemy)"`
	Kind        string `json:"kind,omitempty" jsonschema:"unit kind (normal, servant, building)"`
}

// UnitDeleteInput removes a unit from an encounter.
type UnitDeleteInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
	UnitID      string `json:"unit_id" jsonschema:"unit identifier"`
}

// GroupCreateInput registers a turn group.
type GroupCreateInput struct {
	EncounterID   string   `json:"encounter_id" jsonschema:"encounter identifier"`
	GroupID       string   `json:"group_id" jsonschema:"group identifier"`
	Name          string   `json:"name,omitempty" jsonschema:"display name for the group"`
	MemberUnitIDs []string `json:"member_unit_ids,omitempty" jsonschema:"unit ids sharing the group's rotation slot"`
}

// GroupDeleteInput removes a turn group.
type GroupDeleteInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
	GroupID     string `json:"group_id" jsonschema:"group identifier"`
}

// EntrySpec is one rotation slot in an order edit.
type EntrySpec struct {
	Kind string `json:"kind" jsonschema:"entry kind (unit or group)"`
	ID   string `json:"id" jsonschema:"unit or group identifier"`
}

// GroupSpec is one group definition in an order edit.
type GroupSpec struct {
	ID            string   `json:"id" jsonschema:"group identifier"`
	Name          string   `json:"name,omitempty" jsonschema:"display name for the group"`
	MemberUnitIDs []string `json:"member_unit_ids,omitempty" jsonschema:"unit ids sharing the group's rotation slot"`
}

// DisabledChangeSpec is one turn-disabled flip in an order edit batch.
type DisabledChangeSpec struct {
	UnitID       string `json:"unit_id" jsonschema:"unit identifier"`
	TurnDisabled bool   `json:"turn_disabled" jsonschema:"whether the unit skips its turns"`
}

// TurnOrderSetInput replaces the full rotation in one edit.
type TurnOrderSetInput struct {
	EncounterID     string               `json:"encounter_id" jsonschema:"encounter identifier"`
	Entries         []EntrySpec          `json:"entries" jsonschema:"full replacement rotation, in order"`
	Groups          []GroupSpec          `json:"groups,omitempty" jsonschema:"full replacement group set"`
	DisabledChanges []DisabledChangeSpec `json:"disabled_changes,omitempty" jsonschema:"turn-disabled flips applied with the edit"`
}

// TurnAdvanceInput moves the scheduler one turn forward.
type TurnAdvanceInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
}

// TurnTempGrantInput grants a temporary out-of-order turn.
type TurnTempGrantInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
	TargetKind  string `json:"target_kind" jsonschema:"target kind (unit or group)"`
	TargetID    string `json:"target_id" jsonschema:"unit or group identifier"`
}

// TurnDisabledSetInput flips one unit's turn-disabled flag.
type TurnDisabledSetInput struct {
	EncounterID  string `json:"encounter_id" jsonschema:"encounter identifier"`
	UnitID       string `json:"unit_id" jsonschema:"unit identifier"`
	TurnDisabled bool   `json:"turn_disabled" jsonschema:"whether the unit skips its turns"`
}

// TurnStateGetInput reads the current tracker state.
type TurnStateGetInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter identifier"`
}

// RejectionView is one domain rejection surfaced to the client.
type RejectionView struct {
	Code    string `json:"code" jsonschema:"machine-readable rejection code"`
	Message string `json:"message" jsonschema:"human-readable rejection reason"`
}

// CommandResult reports a command outcome plus the tracker state after it.
// Rejections are normal results, not tool errors: clients disable controls
// off the codes without retry loops.
type CommandResult struct {
	Accepted   bool            `json:"accepted" jsonschema:"whether the command was applied"`
	Rejections []RejectionView `json:"rejections,omitempty" jsonschema:"domain rejections when not accepted"`
	TurnState  *turnview.Model `json:"turn_state,omitempty" jsonschema:"tracker state after the command"`
}

// TurnStateResult reports the tracker state.
type TurnStateResult struct {
	TurnState turnview.Model `json:"turn_state" jsonschema:"current tracker state"`
}
