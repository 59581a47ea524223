package scenario

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/warbandtools/skirmish/internal/encounter/app"
	"github.com/warbandtools/skirmish/internal/encounter/domain/engine"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turnorder"
	"github.com/warbandtools/skirmish/internal/encounter/storage/sqlite"
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

func TestLoadFileDecodesFixture(t *testing.T) {
	fixture, err := LoadFile(filepath.Join("testdata", "bridge_ambush.yaml"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if fixture.Name != "Bridge Ambush" {
		t.Fatalf("name = %q", fixture.Name)
	}
	if len(fixture.Units) != 5 || len(fixture.Groups) != 1 {
		t.Fatalf("units = %d groups = %d, want 5 and 1", len(fixture.Units), len(fixture.Groups))
	}
	if len(fixture.Order) != 3 || fixture.Order[1].Kind != "group" {
		t.Fatalf("order = %+v, want three entries with a group second", fixture.Order)
	}
	if !fixture.Units[4].TurnDisabled {
		t.Fatal("watchtower should load turn_disabled")
	}
}

func TestLoadRejectsInvalidFixtures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "units:\n  - id: ranger\n",
			want: "name is required",
		},
		{
			name: "unit without id",
			yaml: "name: Broken\nunits:\n  - bench: team\n",
			want: "id is required",
		},
		{
			name: "unknown step action",
			yaml: "name: Broken\nsteps:\n  - action: teleport\n",
			want: "unknown action",
		},
		{
			name: "temp grant without target",
			yaml: "name: Broken\nsteps:\n  - action: temp_grant\n",
			want: "target_kind and target_id",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoadGlobRequiresMatches(t *testing.T) {
	if _, err := LoadGlob(filepath.Join(t.TempDir(), "*.yaml")); err == nil {
		t.Fatal("expected error when no fixtures match")
	}
}

func TestApplySeedsEncounter(t *testing.T) {
	fixture, err := LoadFile(filepath.Join("testdata", "bridge_ambush.yaml"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	service := newTestService(t)
	var log bytes.Buffer
	runner, err := NewRunner(service, &log)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	ctx := context.Background()
	encounterID, err := runner.Apply(ctx, fixture)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	state, err := service.Load(ctx, encounterID)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(state.Units) != 5 {
		t.Fatalf("units = %d, want 5", len(state.Units))
	}
	if len(state.Scheduler.Entries) != 3 {
		t.Fatalf("rotation = %+v, want the fixture's three entries", state.Scheduler.Entries)
	}
	// advance, temp grant, advance: the grant pops first, so the index
	// stays on the second slot with no pending interrupts.
	if state.Scheduler.TurnIndex != 1 || state.Scheduler.Round != 1 {
		t.Fatalf("index = %d round = %d, want 1 and 1", state.Scheduler.TurnIndex, state.Scheduler.Round)
	}
	if len(state.Scheduler.TempStack) != 0 {
		t.Fatalf("temp stack = %+v, want drained", state.Scheduler.TempStack)
	}
	if unit, ok := state.Units["watchtower"]; !ok || !unit.TurnDisabled {
		t.Fatalf("watchtower = %+v, want turn disabled", unit)
	}
	if !strings.Contains(log.String(), "Bridge Ambush") {
		t.Fatalf("log = %q, want encounter name", log.String())
	}
}

func TestApplyFailsOnRejection(t *testing.T) {
	service := newTestService(t)
	runner, err := NewRunner(service, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	fixture := Fixture{
		Name:  "Ghost Order",
		Units: []UnitSpec{{ID: "ranger"}},
		Order: []EntrySpec{{Kind: string(turnorder.EntryKindUnit), ID: "ghost"}},
	}
	_, err = runner.Apply(context.Background(), fixture)
	if err == nil || !strings.Contains(err.Error(), "TURN_ENTRY_UNKNOWN_REF") {
		t.Fatalf("err = %v, want rejection code surfaced", err)
	}
}
