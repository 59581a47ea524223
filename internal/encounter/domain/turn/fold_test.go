package turn

import (
	"encoding/json"
	"testing"

	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
)

func makeEvent(t *testing.T, eventType event.Type, payload any) event.Event {
	t.Helper()
	evt := event.Event{EncounterID: "enc-1", Type: eventType}
	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		evt.PayloadJSON = payloadJSON
	}
	return evt
}

func TestFoldOrderSetReplacesRotationAndGroups(t *testing.T) {
	state := stateWithUnits("ranger", "mage")
	payload := OrderSetPayload{
		Entries: []turnorder.Entry{
			turnorder.GroupEntry("pack"),
			turnorder.UnitEntry("ranger"),
			turnorder.UnitEntry("mage"),
		},
		Groups: []GroupSpec{{ID: "pack", Name: "Wolf Pack", MemberUnitIDs: []string{"ranger"}}},
	}
	// The pack claims ranger, so its bare slot is stripped on write.
	next, err := Fold(state, makeEvent(t, event.TypeTurnOrderSet, payload))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(next.Scheduler.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(next.Scheduler.Entries))
	}
	if next.Scheduler.Entries[0] != turnorder.GroupEntry("pack") {
		t.Fatalf("entries[0] = %+v, want group pack", next.Scheduler.Entries[0])
	}
	if _, ok := next.Groups["pack"]; !ok {
		t.Fatal("group registry missing pack")
	}
}

func TestFoldOrderSetAppliesDisabledBatch(t *testing.T) {
	state := stateWithUnits("ranger", "mage")
	payload := OrderSetPayload{
		Entries:         []turnorder.Entry{turnorder.UnitEntry("ranger"), turnorder.UnitEntry("mage")},
		DisabledChanges: []DisabledChangeSpec{{UnitID: "mage", TurnDisabled: true}},
	}
	next, err := Fold(state, makeEvent(t, event.TypeTurnOrderSet, payload))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if !next.Units["mage"].TurnDisabled {
		t.Fatal("disabled flip not applied")
	}
	if state.Units["mage"].TurnDisabled {
		t.Fatal("fold mutated its input state")
	}
}

func TestFoldOrderSetReportsJournalDisagreement(t *testing.T) {
	state := stateWithUnits("ranger")
	payload := OrderSetPayload{Entries: []turnorder.Entry{turnorder.UnitEntry("ghost")}}
	if _, err := Fold(state, makeEvent(t, event.TypeTurnOrderSet, payload)); err == nil {
		t.Fatal("expected fold error for an order referencing an unknown unit")
	}
}

func TestFoldAdvancedMovesScheduler(t *testing.T) {
	state := stateWithUnits("ranger", "mage")
	next, err := Fold(state, makeEvent(t, event.TypeTurnAdvanced, nil))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if next.Scheduler.TurnIndex != 1 {
		t.Fatalf("turn index = %d, want 1", next.Scheduler.TurnIndex)
	}
	if state.Scheduler.TurnIndex != 0 {
		t.Fatal("fold mutated its input state")
	}
}

func TestFoldTempGrantedPushesToken(t *testing.T) {
	state := stateWithUnits("ranger")
	next, err := Fold(state, makeEvent(t, event.TypeTurnTempGranted, TempGrantPayload{Target: turnorder.UnitToken("ranger")}))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(next.Scheduler.TempStack) != 1 {
		t.Fatalf("temp stack = %d, want 1", len(next.Scheduler.TempStack))
	}
}

func TestFoldDisabledSetSoftSkipsDeletedUnit(t *testing.T) {
	state := stateWithUnits("ranger")
	next, err := Fold(state, makeEvent(t, event.TypeTurnDisabledSet, DisabledSetPayload{UnitID: "ghost", TurnDisabled: true}))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(next.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(next.Units))
	}
}

func TestFoldDisabledSetFlipsFlag(t *testing.T) {
	state := stateWithUnits("ranger")
	next, err := Fold(state, makeEvent(t, event.TypeTurnDisabledSet, DisabledSetPayload{UnitID: "ranger", TurnDisabled: true}))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if !next.Units["ranger"].TurnDisabled {
		t.Fatal("flag not flipped")
	}
}
