package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warbandtools/skirmish/internal/encounter/app"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/roster"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turn"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
	"github.com/warbandtools/skirmish/internal/view/turnview"
)

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

// executeCommand runs a command and renders the outcome with the tracker
// state diffed against the pre-command state for animation direction.
func executeCommand(ctx context.Context, service *app.Service, cmd command.Command, payload any) (CommandResult, error) {
	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return CommandResult{}, fmt.Errorf("encode command payload: %w", err)
		}
		cmd.PayloadJSON = payloadJSON
	}
	cmd.ActorType = command.ActorTypeOperator

	before, err := service.Load(ctx, cmd.EncounterID)
	if err != nil {
		return CommandResult{}, err
	}

	result, err := service.Execute(ctx, cmd)
	if err != nil {
		return CommandResult{}, err
	}

	if len(result.Decision.Rejections) > 0 {
		rejections := make([]RejectionView, 0, len(result.Decision.Rejections))
		for _, rejection := range result.Decision.Rejections {
			rejections = append(rejections, RejectionView{Code: rejection.Code, Message: rejection.Message})
		}
		model := turnview.Snapshot(before)
		return CommandResult{Rejections: rejections, TurnState: &model}, nil
	}

	model := turnview.Build(before, result.State)
	return CommandResult{Accepted: true, TurnState: &model}, nil
}

// EncounterCreateHandler creates encounters.
func EncounterCreateHandler(service *app.Service) mcp.ToolHandlerFor[EncounterCreateInput, EncounterCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EncounterCreateInput) (*mcp.CallToolResult, EncounterCreateResult, error) {
		record, err := service.CreateEncounter(ctx, input.Name)
		if err != nil {
			return nil, EncounterCreateResult{}, fmt.Errorf("encounter create failed: %w", err)
		}
		return nil, EncounterCreateResult{
			ID:        record.ID,
			Name:      record.Name,
			CreatedAt: formatTimestamp(record.CreatedAt),
		}, nil
	}
}

// EncounterListHandler lists encounters.
func EncounterListHandler(service *app.Service) mcp.ToolHandlerFor[EncounterListInput, EncounterListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EncounterListInput) (*mcp.CallToolResult, EncounterListResult, error) {
		records, err := service.ListEncounters(ctx)
		if err != nil {
			return nil, EncounterListResult{}, fmt.Errorf("encounter list failed: %w", err)
		}
		result := EncounterListResult{Encounters: make([]EncounterListEntry, 0, len(records))}
		for _, record := range records {
			result.Encounters = append(result.Encounters, EncounterListEntry{
				ID:        record.ID,
				Name:      record.Name,
				CreatedAt: formatTimestamp(record.CreatedAt),
				UpdatedAt: formatTimestamp(record.UpdatedAt),
			})
		}
		return nil, result, nil
	}
}

// UnitCreateHandler registers units.
func UnitCreateHandler(service *app.Service) mcp.ToolHandlerFor[UnitCreateInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitCreateInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: roster.CommandTypeUnitCreate},
			roster.UnitCreatePayload{UnitID: input.UnitID, Bench: input.Bench, Kind: input.Kind})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("unit create failed: %w", err)
		}
		return nil, result, nil
	}
}

// UnitUpdateHandler updates unit scheduling fields.
func UnitUpdateHandler(service *app.Service) mcp.ToolHandlerFor[UnitUpdateInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitUpdateInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: roster.CommandTypeUnitUpdate},
			roster.UnitUpdatePayload{UnitID: input.UnitID, Bench: input.Bench, Kind: input.Kind})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("unit update failed: %w", err)
		}
		return nil, result, nil
	}
}

// UnitDeleteHandler removes units.
func UnitDeleteHandler(service *app.Service) mcp.ToolHandlerFor[UnitDeleteInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitDeleteInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: roster.CommandTypeUnitDelete},
			roster.UnitDeletePayload{UnitID: input.UnitID})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("unit delete failed: %w", err)
		}
		return nil, result, nil
	}
}

// GroupCreateHandler registers turn groups.
func GroupCreateHandler(service *app.Service) mcp.ToolHandlerFor[GroupCreateInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GroupCreateInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: roster.CommandTypeGroupCreate},
			roster.GroupCreatePayload{GroupID: input.GroupID, Name: input.Name, MemberUnitIDs: input.MemberUnitIDs})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("group create failed: %w", err)
		}
		return nil, result, nil
	}
}

// GroupDeleteHandler removes turn groups.
func GroupDeleteHandler(service *app.Service) mcp.ToolHandlerFor[GroupDeleteInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GroupDeleteInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: roster.CommandTypeGroupDelete},
			roster.GroupDeletePayload{GroupID: input.GroupID})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("group delete failed: %w", err)
		}
		return nil, result, nil
	}
}

func orderSetPayloadFromInput(input TurnOrderSetInput) turn.OrderSetPayload {
	payload := turn.OrderSetPayload{
		Entries: make([]turnorder.Entry, 0, len(input.Entries)),
	}
	for _, entry := range input.Entries {
		payload.Entries = append(payload.Entries, turnorder.Entry{
			Kind: turnorder.EntryKind(entry.Kind),
			ID:   entry.ID,
		})
	}
	for _, group := range input.Groups {
		payload.Groups = append(payload.Groups, turn.GroupSpec{
			ID:            group.ID,
			Name:          group.Name,
			MemberUnitIDs: group.MemberUnitIDs,
		})
	}
	for _, change := range input.DisabledChanges {
		payload.DisabledChanges = append(payload.DisabledChanges, turn.DisabledChangeSpec{
			UnitID:       change.UnitID,
			TurnDisabled: change.TurnDisabled,
		})
	}
	return payload
}

// TurnOrderSetHandler applies full rotation edits.
func TurnOrderSetHandler(service *app.Service) mcp.ToolHandlerFor[TurnOrderSetInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnOrderSetInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: turn.CommandTypeOrderSet},
			orderSetPayloadFromInput(input))
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("turn order set failed: %w", err)
		}
		return nil, result, nil
	}
}

// TurnAdvanceHandler steps the scheduler forward.
func TurnAdvanceHandler(service *app.Service) mcp.ToolHandlerFor[TurnAdvanceInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnAdvanceInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: turn.CommandTypeAdvance}, nil)
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("turn advance failed: %w", err)
		}
		return nil, result, nil
	}
}

// TurnTempGrantHandler grants temporary turns.
func TurnTempGrantHandler(service *app.Service) mcp.ToolHandlerFor[TurnTempGrantInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnTempGrantInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: turn.CommandTypeTempGrant},
			turn.TempGrantPayload{Target: turnorder.Token{
				Kind: turnorder.EntryKind(input.TargetKind),
				ID:   input.TargetID,
			}})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("turn temp grant failed: %w", err)
		}
		return nil, result, nil
	}
}

// TurnDisabledSetHandler flips turn-disabled flags.
func TurnDisabledSetHandler(service *app.Service) mcp.ToolHandlerFor[TurnDisabledSetInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnDisabledSetInput) (*mcp.CallToolResult, CommandResult, error) {
		result, err := executeCommand(ctx, service,
			command.Command{EncounterID: input.EncounterID, Type: turn.CommandTypeDisabledSet},
			turn.DisabledSetPayload{UnitID: input.UnitID, TurnDisabled: input.TurnDisabled})
		if err != nil {
			return nil, CommandResult{}, fmt.Errorf("turn disabled set failed: %w", err)
		}
		return nil, result, nil
	}
}

// TurnStateGetHandler reads the tracker state without mutating it.
func TurnStateGetHandler(service *app.Service) mcp.ToolHandlerFor[TurnStateGetInput, TurnStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnStateGetInput) (*mcp.CallToolResult, TurnStateResult, error) {
		if _, err := service.GetEncounter(ctx, input.EncounterID); err != nil {
			return nil, TurnStateResult{}, fmt.Errorf("turn state get failed: %w", err)
		}
		state, err := service.Load(ctx, input.EncounterID)
		if err != nil {
			return nil, TurnStateResult{}, fmt.Errorf("turn state get failed: %w", err)
		}
		return nil, TurnStateResult{TurnState: turnview.Snapshot(state)}, nil
	}
}
