package roster

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

func makeCommand(commandType command.Type, payload any) command.Command {
	payloadJSON, _ := json.Marshal(payload)
	return command.Command{
		EncounterID: "enc-1",
		Type:        commandType,
		ActorType:   command.ActorTypeOperator,
		ActorID:     "op-1",
		PayloadJSON: payloadJSON,
	}
}

func stateWithUnit(unitID string) aggregate.State {
	state := aggregate.NewState()
	state.Units[unitID] = turnorder.Unit{ID: unitID, Kind: turnorder.UnitKindNormal}
	state.Scheduler = turnorder.AppendUnitEntry(state.Scheduler, unitID)
	return state
}

func TestDecideUnitCreateEmitsEvent(t *testing.T) {
	cmd := makeCommand(CommandTypeUnitCreate, UnitCreatePayload{UnitID: "grunt", Bench: "team", Kind: "servant"})
	decision := Decide(aggregate.NewState(), cmd, fixedNow)
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejections: %+v", decision.Rejections)
	}
	if len(decision.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(decision.Events))
	}
	evt := decision.Events[0]
	if evt.Type != event.TypeUnitCreated {
		t.Fatalf("event type = %s, want %s", evt.Type, event.TypeUnitCreated)
	}
	if evt.EntityID != "grunt" {
		t.Fatalf("entity id = %s, want grunt", evt.EntityID)
	}
	var payload UnitCreatePayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Bench != "team" || payload.Kind != "servant" {
		t.Fatalf("payload = %+v, want bench team kind servant", payload)
	}
}

func TestDecideUnitCreateDefaultsKindToNormal(t *testing.T) {
	cmd := makeCommand(CommandTypeUnitCreate, UnitCreatePayload{UnitID: "grunt"})
	decision := Decide(aggregate.NewState(), cmd, fixedNow)
	if len(decision.Events) != 1 {
		t.Fatalf("events = %d, rejections = %+v", len(decision.Events), decision.Rejections)
	}
	var payload UnitCreatePayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Kind != string(turnorder.UnitKindNormal) {
		t.Fatalf("kind = %q, want normal", payload.Kind)
	}
}

func TestDecideUnitCreateRejections(t *testing.T) {
	tests := []struct {
		name     string
		state    aggregate.State
		payload  UnitCreatePayload
		wantCode string
	}{
		{"missing id", aggregate.NewState(), UnitCreatePayload{}, RejectionCodeUnitIDRequired},
		{"duplicate id", stateWithUnit("grunt"), UnitCreatePayload{UnitID: "grunt"}, RejectionCodeUnitExists},
		{"bad bench", aggregate.NewState(), UnitCreatePayload{UnitID: "grunt", Bench: "pit"}, RejectionCodeUnitInvalidBench},
		{"bad kind", aggregate.NewState(), UnitCreatePayload{UnitID: "grunt", Kind: "titan"}, RejectionCodeUnitInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(tt.state, makeCommand(CommandTypeUnitCreate, tt.payload), fixedNow)
			if len(decision.Rejections) != 1 {
				t.Fatalf("rejections = %d, want 1", len(decision.Rejections))
			}
			if decision.Rejections[0].Code != tt.wantCode {
				t.Fatalf("code = %s, want %s", decision.Rejections[0].Code, tt.wantCode)
			}
			if len(decision.Events) != 0 {
				t.Fatalf("rejected command emitted %d events", len(decision.Events))
			}
		})
	}
}

func TestDecideUnitUpdateRequiresExistingUnit(t *testing.T) {
	cmd := makeCommand(CommandTypeUnitUpdate, UnitUpdatePayload{UnitID: "ghost"})
	decision := Decide(aggregate.NewState(), cmd, fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != RejectionCodeUnitNotFound {
		t.Fatalf("decision = %+v, want %s rejection", decision, RejectionCodeUnitNotFound)
	}
}

func TestDecideUnitUpdateEmitsEvent(t *testing.T) {
	cmd := makeCommand(CommandTypeUnitUpdate, UnitUpdatePayload{UnitID: "grunt", Bench: "enemy", Kind: "building"})
	decision := Decide(stateWithUnit("grunt"), cmd, fixedNow)
	if len(decision.Events) != 1 {
		t.Fatalf("events = %d, rejections = %+v", len(decision.Events), decision.Rejections)
	}
	if decision.Events[0].Type != event.TypeUnitUpdated {
		t.Fatalf("event type = %s, want %s", decision.Events[0].Type, event.TypeUnitUpdated)
	}
}

func TestDecideUnitDelete(t *testing.T) {
	decision := Decide(stateWithUnit("grunt"), makeCommand(CommandTypeUnitDelete, UnitDeletePayload{UnitID: "grunt"}), fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != event.TypeUnitDeleted {
		t.Fatalf("decision = %+v, want one %s event", decision, event.TypeUnitDeleted)
	}

	decision = Decide(aggregate.NewState(), makeCommand(CommandTypeUnitDelete, UnitDeletePayload{UnitID: "ghost"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != RejectionCodeUnitNotFound {
		t.Fatalf("decision = %+v, want %s rejection", decision, RejectionCodeUnitNotFound)
	}
}

func TestDecideGroupCreateNormalizesMembers(t *testing.T) {
	cmd := makeCommand(CommandTypeGroupCreate, GroupCreatePayload{
		GroupID:       "pack",
		Name:          "  Wolf Pack  ",
		MemberUnitIDs: []string{"alpha", " ", "beta"},
	})
	decision := Decide(aggregate.NewState(), cmd, fixedNow)
	if len(decision.Events) != 1 {
		t.Fatalf("events = %d, rejections = %+v", len(decision.Events), decision.Rejections)
	}
	var payload GroupCreatePayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Name != "Wolf Pack" {
		t.Fatalf("name = %q, want trimmed", payload.Name)
	}
	if len(payload.MemberUnitIDs) != 2 {
		t.Fatalf("members = %v, want blank entries dropped", payload.MemberUnitIDs)
	}
}

func TestDecideGroupCreateRejectsDuplicate(t *testing.T) {
	state := aggregate.NewState()
	state.Groups["pack"] = turnorder.Group{ID: "pack"}
	decision := Decide(state, makeCommand(CommandTypeGroupCreate, GroupCreatePayload{GroupID: "pack"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != RejectionCodeGroupExists {
		t.Fatalf("decision = %+v, want %s rejection", decision, RejectionCodeGroupExists)
	}
}

func TestDecideGroupDelete(t *testing.T) {
	state := aggregate.NewState()
	state.Groups["pack"] = turnorder.Group{ID: "pack"}
	decision := Decide(state, makeCommand(CommandTypeGroupDelete, GroupDeletePayload{GroupID: "pack"}), fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != event.TypeGroupDeleted {
		t.Fatalf("decision = %+v, want one %s event", decision, event.TypeGroupDeleted)
	}

	decision = Decide(aggregate.NewState(), makeCommand(CommandTypeGroupDelete, GroupDeletePayload{GroupID: "ghost"}), fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != RejectionCodeGroupNotFound {
		t.Fatalf("decision = %+v, want %s rejection", decision, RejectionCodeGroupNotFound)
	}
}
