package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/warbandtools/skirmish/internal/encounter/app"
	"github.com/warbandtools/skirmish/internal/encounter/domain/engine"
	"github.com/warbandtools/skirmish/internal/encounter/storage/sqlite"
	"github.com/warbandtools/skirmish/internal/view/turnview"
)

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	registries, err := engine.NewRegistries()
	if err != nil {
		t.Fatalf("new registries: %v", err)
	}
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "encounters.db"), registries.Events)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	service, err := app.NewService(app.Stores{Encounters: store, Events: store, Snapshots: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func createEncounter(t *testing.T, service *app.Service) string {
	t.Helper()
	_, result, err := EncounterCreateHandler(service)(context.Background(), nil, EncounterCreateInput{Name: "Bridge Ambush"})
	if err != nil {
		t.Fatalf("encounter create: %v", err)
	}
	if result.ID == "" {
		t.Fatal("encounter id is empty")
	}
	return result.ID
}

func createUnit(t *testing.T, service *app.Service, encounterID, unitID string) {
	t.Helper()
	_, result, err := UnitCreateHandler(service)(context.Background(), nil, UnitCreateInput{
		EncounterID: encounterID,
		UnitID:      unitID,
	})
	if err != nil {
		t.Fatalf("unit create %s: %v", unitID, err)
	}
	if !result.Accepted {
		t.Fatalf("unit create %s rejected: %+v", unitID, result.Rejections)
	}
}

func TestNewServerRequiresService(t *testing.T) {
	if _, err := NewServer(nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	if _, err := NewServer(newTestService(t)); err != nil {
		t.Fatalf("new server: %v", err)
	}
}

func TestEncounterListReflectsCreates(t *testing.T) {
	service := newTestService(t)
	createEncounter(t, service)

	_, result, err := EncounterListHandler(service)(context.Background(), nil, EncounterListInput{})
	if err != nil {
		t.Fatalf("encounter list: %v", err)
	}
	if len(result.Encounters) != 1 {
		t.Fatalf("encounters = %d, want 1", len(result.Encounters))
	}
	if result.Encounters[0].Name != "Bridge Ambush" {
		t.Fatalf("name = %q", result.Encounters[0].Name)
	}
}

func TestTurnAdvanceReportsForwardDirection(t *testing.T) {
	service := newTestService(t)
	encounterID := createEncounter(t, service)
	createUnit(t, service, encounterID, "ranger")
	createUnit(t, service, encounterID, "mage")

	_, result, err := TurnAdvanceHandler(service)(context.Background(), nil, TurnAdvanceInput{EncounterID: encounterID})
	if err != nil {
		t.Fatalf("turn advance: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("advance rejected: %+v", result.Rejections)
	}
	if result.TurnState == nil {
		t.Fatal("turn state missing")
	}
	if result.TurnState.Direction != turnview.DirectionForward {
		t.Fatalf("direction = %s, want %s", result.TurnState.Direction, turnview.DirectionForward)
	}
	if result.TurnState.Current == nil || result.TurnState.Current.ID != "mage" {
		t.Fatalf("current = %+v, want mage", result.TurnState.Current)
	}
}

func TestTurnAdvanceNothingEligibleIsRejectionNotError(t *testing.T) {
	service := newTestService(t)
	encounterID := createEncounter(t, service)

	_, result, err := TurnAdvanceHandler(service)(context.Background(), nil, TurnAdvanceInput{EncounterID: encounterID})
	if err != nil {
		t.Fatalf("turn advance: %v", err)
	}
	if result.Accepted {
		t.Fatal("advance on an empty rotation must not be accepted")
	}
	if len(result.Rejections) != 1 || result.Rejections[0].Code != "TURN_NOTHING_ELIGIBLE" {
		t.Fatalf("rejections = %+v, want TURN_NOTHING_ELIGIBLE", result.Rejections)
	}
}

func TestTurnTempGrantThenAdvanceResumes(t *testing.T) {
	service := newTestService(t)
	encounterID := createEncounter(t, service)
	createUnit(t, service, encounterID, "ranger")
	createUnit(t, service, encounterID, "mage")

	ctx := context.Background()
	_, grant, err := TurnTempGrantHandler(service)(ctx, nil, TurnTempGrantInput{
		EncounterID: encounterID,
		TargetKind:  "unit",
		TargetID:    "mage",
	})
	if err != nil {
		t.Fatalf("temp grant: %v", err)
	}
	if !grant.Accepted || grant.TurnState.Direction != turnview.DirectionInterrupt {
		t.Fatalf("grant result = %+v, want accepted interrupt", grant)
	}
	if grant.TurnState.Current == nil || grant.TurnState.Current.ID != "mage" {
		t.Fatalf("current = %+v, want mage", grant.TurnState.Current)
	}

	_, popped, err := TurnAdvanceHandler(service)(ctx, nil, TurnAdvanceInput{EncounterID: encounterID})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if popped.TurnState.Direction != turnview.DirectionResume {
		t.Fatalf("direction = %s, want %s", popped.TurnState.Direction, turnview.DirectionResume)
	}
	if popped.TurnState.Current == nil || popped.TurnState.Current.ID != "ranger" {
		t.Fatalf("current = %+v, want ranger restored", popped.TurnState.Current)
	}
}

func TestTurnOrderSetRejectionSurfacesCode(t *testing.T) {
	service := newTestService(t)
	encounterID := createEncounter(t, service)
	createUnit(t, service, encounterID, "ranger")

	_, result, err := TurnOrderSetHandler(service)(context.Background(), nil, TurnOrderSetInput{
		EncounterID: encounterID,
		Entries:     []EntrySpec{{Kind: "unit", ID: "ranger"}, {Kind: "unit", ID: "ghost"}},
	})
	if err != nil {
		t.Fatalf("order set: %v", err)
	}
	if result.Accepted {
		t.Fatal("order referencing an unknown unit must not be accepted")
	}
	if len(result.Rejections) != 1 || result.Rejections[0].Code != "TURN_ENTRY_UNKNOWN_REF" {
		t.Fatalf("rejections = %+v, want TURN_ENTRY_UNKNOWN_REF", result.Rejections)
	}
}

func TestTurnStateGetSnapshots(t *testing.T) {
	service := newTestService(t)
	encounterID := createEncounter(t, service)
	createUnit(t, service, encounterID, "ranger")

	_, result, err := TurnStateGetHandler(service)(context.Background(), nil, TurnStateGetInput{EncounterID: encounterID})
	if err != nil {
		t.Fatalf("turn state get: %v", err)
	}
	if result.TurnState.Direction != turnview.DirectionNone {
		t.Fatalf("direction = %s, want %s", result.TurnState.Direction, turnview.DirectionNone)
	}
	if len(result.TurnState.Order) != 1 {
		t.Fatalf("order = %d, want 1", len(result.TurnState.Order))
	}
}

func TestUnitDeleteKeepsDanglingInterrupt(t *testing.T) {
	service := newTestService(t)
	encounterID := createEncounter(t, service)
	createUnit(t, service, encounterID, "ranger")
	createUnit(t, service, encounterID, "mage")

	ctx := context.Background()
	if _, grant, err := TurnTempGrantHandler(service)(ctx, nil, TurnTempGrantInput{
		EncounterID: encounterID, TargetKind: "unit", TargetID: "mage",
	}); err != nil || !grant.Accepted {
		t.Fatalf("temp grant: err=%v result=%+v", err, grant)
	}

	_, deleted, err := UnitDeleteHandler(service)(ctx, nil, UnitDeleteInput{EncounterID: encounterID, UnitID: "mage"})
	if err != nil {
		t.Fatalf("unit delete: %v", err)
	}
	if !deleted.Accepted {
		t.Fatalf("delete rejected: %+v", deleted.Rejections)
	}
	if deleted.TurnState.InterruptDepth != 1 {
		t.Fatalf("interrupt depth = %d, want the token to survive", deleted.TurnState.InterruptDepth)
	}
	if deleted.TurnState.Current == nil || deleted.TurnState.Current.Label != "" {
		t.Fatalf("current = %+v, want label-less dangling token", deleted.TurnState.Current)
	}
}
