package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/warbandtools/skirmish/internal/encounter/app"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/roster"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turn"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

// Runner applies fixtures to an encounter service.
type Runner struct {
	service *app.Service
	log     io.Writer
}

// NewRunner builds a runner. The writer receives progress lines; pass nil
// to run quietly.
func NewRunner(service *app.Service, log io.Writer) (*Runner, error) {
	if service == nil {
		return nil, fmt.Errorf("encounter service is required")
	}
	if log == nil {
		log = io.Discard
	}
	return &Runner{service: service, log: log}, nil
}

// Apply creates the fixture's encounter, seeds its roster and order, and
// runs its steps. It returns the new encounter's id. A domain rejection
// fails the run: fixtures are expected to describe valid encounters.
func (r *Runner) Apply(ctx context.Context, fixture Fixture) (string, error) {
	record, err := r.service.CreateEncounter(ctx, fixture.Name)
	if err != nil {
		return "", fmt.Errorf("create encounter: %w", err)
	}
	fmt.Fprintf(r.log, "encounter %q (%s)\n", record.Name, record.ID)

	for _, unit := range fixture.Units {
		payload := roster.UnitCreatePayload{UnitID: unit.ID, Bench: unit.Bench, Kind: unit.Kind}
		if err := r.execute(ctx, record.ID, roster.CommandTypeUnitCreate, payload); err != nil {
			return "", fmt.Errorf("unit %s: %w", unit.ID, err)
		}
	}
	for _, group := range fixture.Groups {
		payload := roster.GroupCreatePayload{GroupID: group.ID, Name: group.Name, MemberUnitIDs: group.Members}
		if err := r.execute(ctx, record.ID, roster.CommandTypeGroupCreate, payload); err != nil {
			return "", fmt.Errorf("group %s: %w", group.ID, err)
		}
	}

	if len(fixture.Order) > 0 {
		payload := turn.OrderSetPayload{Entries: make([]turnorder.Entry, 0, len(fixture.Order))}
		for _, entry := range fixture.Order {
			payload.Entries = append(payload.Entries, turnorder.Entry{
				Kind: turnorder.EntryKind(entry.Kind),
				ID:   entry.ID,
			})
		}
		if err := r.execute(ctx, record.ID, turn.CommandTypeOrderSet, payload); err != nil {
			return "", fmt.Errorf("order: %w", err)
		}
	}

	for _, unit := range fixture.Units {
		if !unit.TurnDisabled {
			continue
		}
		payload := turn.DisabledSetPayload{UnitID: unit.ID, TurnDisabled: true}
		if err := r.execute(ctx, record.ID, turn.CommandTypeDisabledSet, payload); err != nil {
			return "", fmt.Errorf("disable %s: %w", unit.ID, err)
		}
	}

	for i, step := range fixture.Steps {
		if err := r.applyStep(ctx, record.ID, step); err != nil {
			return "", fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
	}
	return record.ID, nil
}

func (r *Runner) applyStep(ctx context.Context, encounterID string, step Step) error {
	switch step.Action {
	case ActionAdvance:
		return r.execute(ctx, encounterID, turn.CommandTypeAdvance, nil)
	case ActionTempGrant:
		return r.execute(ctx, encounterID, turn.CommandTypeTempGrant, turn.TempGrantPayload{
			Target: turnorder.Token{Kind: turnorder.EntryKind(step.TargetKind), ID: step.TargetID},
		})
	case ActionDisabledSet:
		return r.execute(ctx, encounterID, turn.CommandTypeDisabledSet, turn.DisabledSetPayload{
			UnitID:       step.UnitID,
			TurnDisabled: step.TurnDisabled,
		})
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

func (r *Runner) execute(ctx context.Context, encounterID string, cmdType command.Type, payload any) error {
	cmd := command.Command{
		EncounterID: encounterID,
		Type:        cmdType,
		ActorType:   command.ActorTypeSystem,
	}
	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		cmd.PayloadJSON = payloadJSON
	}

	result, err := r.service.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	if rejections := result.Decision.Rejections; len(rejections) > 0 {
		codes := make([]string, 0, len(rejections))
		for _, rejection := range rejections {
			codes = append(codes, rejection.Code)
		}
		return fmt.Errorf("%s rejected: %s", cmdType, strings.Join(codes, ", "))
	}
	fmt.Fprintf(r.log, "  %s ok\n", cmdType)
	return nil
}
