// Package roster manages the encounter unit and group registries as
// replayable state.
package roster

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

const (
	// CommandTypeUnitCreate registers a new unit.
	CommandTypeUnitCreate command.Type = "unit.create"
	// CommandTypeUnitUpdate changes a unit's bench or kind.
	CommandTypeUnitUpdate command.Type = "unit.update"
	// CommandTypeUnitDelete removes a unit from the encounter.
	CommandTypeUnitDelete command.Type = "unit.delete"
	// CommandTypeGroupCreate registers a new turn group.
	CommandTypeGroupCreate command.Type = "group.create"
	// CommandTypeGroupDelete removes a turn group.
	CommandTypeGroupDelete command.Type = "group.delete"

	// RejectionCodeUnitIDRequired flags a missing unit id.
	RejectionCodeUnitIDRequired = "UNIT_ID_REQUIRED"
	// RejectionCodeUnitExists flags a duplicate unit id.
	RejectionCodeUnitExists = "UNIT_ALREADY_EXISTS"
	// RejectionCodeUnitNotFound flags an operation on an unknown unit.
	RejectionCodeUnitNotFound = "UNIT_NOT_FOUND"
	// RejectionCodeUnitInvalidBench flags an unknown bench value.
	RejectionCodeUnitInvalidBench = "UNIT_INVALID_BENCH"
	// RejectionCodeUnitInvalidKind flags an unknown unit kind.
	RejectionCodeUnitInvalidKind = "UNIT_INVALID_KIND"
	// RejectionCodeGroupIDRequired flags a missing group id.
	RejectionCodeGroupIDRequired = "GROUP_ID_REQUIRED"
	// RejectionCodeGroupExists flags a duplicate group id.
	RejectionCodeGroupExists = "GROUP_ALREADY_EXISTS"
	// RejectionCodeGroupNotFound flags an operation on an unknown group.
	RejectionCodeGroupNotFound = "GROUP_NOT_FOUND"
)

func parseBench(raw string) (turnorder.Bench, bool) {
	switch turnorder.Bench(strings.TrimSpace(raw)) {
	case turnorder.BenchNone:
		return turnorder.BenchNone, true
	case turnorder.BenchTeam:
		return turnorder.BenchTeam, true
	case turnorder.BenchEnemy:
		return turnorder.BenchEnemy, true
	default:
		return turnorder.BenchNone, false
	}
}

func parseKind(raw string) (turnorder.UnitKind, bool) {
	switch turnorder.UnitKind(strings.TrimSpace(raw)) {
	case "":
		return turnorder.UnitKindNormal, true
	case turnorder.UnitKindNormal:
		return turnorder.UnitKindNormal, true
	case turnorder.UnitKindServant:
		return turnorder.UnitKindServant, true
	case turnorder.UnitKindBuilding:
		return turnorder.UnitKindBuilding, true
	default:
		return turnorder.UnitKindNormal, false
	}
}

// Decide returns the decision for a roster command against current state.
func Decide(state aggregate.State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeUnitCreate:
		var payload UnitCreatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		unitID := strings.TrimSpace(payload.UnitID)
		if unitID == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitIDRequired, Message: "unit id is required"})
		}
		if _, exists := state.Units[unitID]; exists {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitExists, Message: "unit already exists"})
		}
		bench, ok := parseBench(payload.Bench)
		if !ok {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitInvalidBench, Message: "bench must be empty, team, or enemy"})
		}
		kind, ok := parseKind(payload.Kind)
		if !ok {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitInvalidKind, Message: "kind must be normal, servant, or building"})
		}
		payloadJSON, _ := json.Marshal(UnitCreatePayload{UnitID: unitID, Bench: string(bench), Kind: string(kind)})
		return command.Accept(command.NewEvent(cmd, event.TypeUnitCreated, "unit", unitID, payloadJSON, now().UTC()))

	case CommandTypeUnitUpdate:
		var payload UnitUpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		unitID := strings.TrimSpace(payload.UnitID)
		if unitID == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitIDRequired, Message: "unit id is required"})
		}
		if _, exists := state.Units[unitID]; !exists {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitNotFound, Message: "unit not found"})
		}
		bench, ok := parseBench(payload.Bench)
		if !ok {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitInvalidBench, Message: "bench must be empty, team, or enemy"})
		}
		kind, ok := parseKind(payload.Kind)
		if !ok {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitInvalidKind, Message: "kind must be normal, servant, or building"})
		}
		payloadJSON, _ := json.Marshal(UnitUpdatePayload{UnitID: unitID, Bench: string(bench), Kind: string(kind)})
		return command.Accept(command.NewEvent(cmd, event.TypeUnitUpdated, "unit", unitID, payloadJSON, now().UTC()))

	case CommandTypeUnitDelete:
		var payload UnitDeletePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		unitID := strings.TrimSpace(payload.UnitID)
		if unitID == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitIDRequired, Message: "unit id is required"})
		}
		if _, exists := state.Units[unitID]; !exists {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitNotFound, Message: "unit not found"})
		}
		payloadJSON, _ := json.Marshal(UnitDeletePayload{UnitID: unitID})
		return command.Accept(command.NewEvent(cmd, event.TypeUnitDeleted, "unit", unitID, payloadJSON, now().UTC()))

	case CommandTypeGroupCreate:
		var payload GroupCreatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		groupID := strings.TrimSpace(payload.GroupID)
		if groupID == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeGroupIDRequired, Message: "group id is required"})
		}
		if _, exists := state.Groups[groupID]; exists {
			return command.Reject(command.Rejection{Code: RejectionCodeGroupExists, Message: "group already exists"})
		}
		members := make([]string, 0, len(payload.MemberUnitIDs))
		for _, memberID := range payload.MemberUnitIDs {
			memberID = strings.TrimSpace(memberID)
			if memberID != "" {
				members = append(members, memberID)
			}
		}
		payloadJSON, _ := json.Marshal(GroupCreatePayload{
			GroupID:       groupID,
			Name:          strings.TrimSpace(payload.Name),
			MemberUnitIDs: members,
		})
		return command.Accept(command.NewEvent(cmd, event.TypeGroupCreated, "group", groupID, payloadJSON, now().UTC()))

	case CommandTypeGroupDelete:
		var payload GroupDeletePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		groupID := strings.TrimSpace(payload.GroupID)
		if groupID == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeGroupIDRequired, Message: "group id is required"})
		}
		if _, exists := state.Groups[groupID]; !exists {
			return command.Reject(command.Rejection{Code: RejectionCodeGroupNotFound, Message: "group not found"})
		}
		payloadJSON, _ := json.Marshal(GroupDeletePayload{GroupID: groupID})
		return command.Accept(command.NewEvent(cmd, event.TypeGroupDeleted, "group", groupID, payloadJSON, now().UTC()))
	}

	return command.Reject(command.Rejection{Code: "UNSUPPORTED_COMMAND", Message: "unsupported roster command"})
}
