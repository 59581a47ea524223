package roster

// UnitCreatePayload captures the payload for unit.create commands and
// unit.created events.
type UnitCreatePayload struct {
	UnitID string `json:"unit_id"`
	Bench  string `json:"bench,omitempty"`
	Kind   string `json:"kind"`
}

// UnitUpdatePayload captures the payload for unit.update commands and
// unit.updated events. Bench and Kind replace the stored values.
type UnitUpdatePayload struct {
	UnitID string `json:"unit_id"`
	Bench  string `json:"bench,omitempty"`
	Kind   string `json:"kind"`
}

// UnitDeletePayload captures the payload for unit.delete commands and
// unit.deleted events.
type UnitDeletePayload struct {
	UnitID string `json:"unit_id"`
}

// GroupCreatePayload captures the payload for group.create commands and
// group.created events.
type GroupCreatePayload struct {
	GroupID       string   `json:"group_id"`
	Name          string   `json:"name,omitempty"`
	MemberUnitIDs []string `json:"member_unit_ids,omitempty"`
}

// GroupDeletePayload captures the payload for group.delete commands and
// group.deleted events.
type GroupDeletePayload struct {
	GroupID string `json:"group_id"`
}
