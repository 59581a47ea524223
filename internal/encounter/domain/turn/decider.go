// Package turn exposes the scheduler's administrative operations as
// commands over the encounter aggregate: full reorders, forward advances,
// temporary turn grants, and turn-disabled flips.
package turn

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
	apperrors "github.com/warbandtools/skirmish/internal/platform/errors"
)

const (
	// CommandTypeOrderSet replaces the rotation, groups, and disabled flags.
	CommandTypeOrderSet command.Type = "turn.order_set"
	// CommandTypeAdvance moves the scheduler one turn forward.
	CommandTypeAdvance command.Type = "turn.advance"
	// CommandTypeTempGrant pushes an operator-granted temporary turn.
	CommandTypeTempGrant command.Type = "turn.temp_grant"
	// CommandTypeDisabledSet flips one unit's turn-disabled flag.
	CommandTypeDisabledSet command.Type = "turn.disabled_set"

	// RejectionCodeNothingEligible reports that no entry can take a turn.
	// Callers disable the advance control on this code; it is not an error.
	RejectionCodeNothingEligible = "TURN_NOTHING_ELIGIBLE"
	// RejectionCodeInvalidOrder reports a rotation edit that failed
	// referential validation; the state is unchanged.
	RejectionCodeInvalidOrder = "TURN_INVALID_ORDER"
	// RejectionCodeTargetRequired reports a temp grant without a target.
	RejectionCodeTargetRequired = "TURN_TARGET_REQUIRED"
	// RejectionCodeUnitNotFound reports a disabled flip for an unknown unit.
	RejectionCodeUnitNotFound = "UNIT_NOT_FOUND"
)

// Decide returns the decision for a turn command against current state.
//
// Rotation edits are validated here with the same reorder engine the fold
// applies, so a command that decides cleanly always folds cleanly against
// the same state.
func Decide(state aggregate.State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandTypeOrderSet:
		var payload OrderSetPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return command.Reject(command.Rejection{Code: RejectionCodeInvalidOrder, Message: err.Error()})
		}
		newGroups := groupsFromSpecs(payload.Groups)
		disabled := disabledFromSpecs(payload.DisabledChanges)
		if _, _, err := turnorder.ApplyReorder(state.Scheduler, state.Units, state.Groups, payload.Entries, newGroups, disabled); err != nil {
			return command.Reject(rejectionFromReorderError(err))
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, event.TypeTurnOrderSet, "turn", cmd.EncounterID, payloadJSON, now().UTC()))

	case CommandTypeAdvance:
		next, result := turnorder.Advance(state.Scheduler, state.Units, state.Groups)
		if !result.Moved {
			return command.Reject(command.Rejection{Code: RejectionCodeNothingEligible, Message: "no entry is eligible for a turn"})
		}
		payloadJSON, _ := json.Marshal(AdvancePayload{
			PoppedInterrupt:  result.PoppedInterrupt,
			RoundIncremented: result.RoundIncremented,
			TurnIndex:        next.TurnIndex,
			Round:            next.Round,
		})
		return command.Accept(command.NewEvent(cmd, event.TypeTurnAdvanced, "turn", cmd.EncounterID, payloadJSON, now().UTC()))

	case CommandTypeTempGrant:
		var payload TempGrantPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return command.Reject(command.Rejection{Code: RejectionCodeTargetRequired, Message: err.Error()})
		}
		if strings.TrimSpace(payload.Target.ID) == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeTargetRequired, Message: "temp turn target is required"})
		}
		// No eligibility check: the grant is an explicit operator override.
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, event.TypeTurnTempGranted, "turn", payload.Target.ID, payloadJSON, now().UTC()))

	case CommandTypeDisabledSet:
		var payload DisabledSetPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		unitID := strings.TrimSpace(payload.UnitID)
		if unitID == "" {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitNotFound, Message: "unit id is required"})
		}
		if _, exists := state.Units[unitID]; !exists {
			return command.Reject(command.Rejection{Code: RejectionCodeUnitNotFound, Message: "unit not found"})
		}
		payloadJSON, _ := json.Marshal(DisabledSetPayload{UnitID: unitID, TurnDisabled: payload.TurnDisabled})
		return command.Accept(command.NewEvent(cmd, event.TypeTurnDisabledSet, "unit", unitID, payloadJSON, now().UTC()))
	}

	return command.Reject(command.Rejection{Code: "UNSUPPORTED_COMMAND", Message: "unsupported turn command"})
}

func groupsFromSpecs(specs []GroupSpec) []turnorder.Group {
	groups := make([]turnorder.Group, 0, len(specs))
	for _, spec := range specs {
		groups = append(groups, turnorder.Group{
			ID:            spec.ID,
			Name:          spec.Name,
			MemberUnitIDs: append([]string(nil), spec.MemberUnitIDs...),
		})
	}
	return groups
}

func disabledFromSpecs(specs []DisabledChangeSpec) []turnorder.DisabledChange {
	changes := make([]turnorder.DisabledChange, 0, len(specs))
	for _, spec := range specs {
		changes = append(changes, turnorder.DisabledChange{UnitID: spec.UnitID, TurnDisabled: spec.TurnDisabled})
	}
	return changes
}

func rejectionFromReorderError(err error) command.Rejection {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return command.Rejection{Code: string(domainErr.Code), Message: domainErr.Message}
	}
	return command.Rejection{Code: RejectionCodeInvalidOrder, Message: err.Error()}
}
