// Package scenario loads YAML encounter fixtures and applies them to an
// encounter service, used by the seed command to stand up demo data.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Step actions understood by the runner.
const (
	ActionAdvance     = "advance"
	ActionTempGrant   = "temp_grant"
	ActionDisabledSet = "disabled_set"
)

// UnitSpec declares one unit in a fixture.
type UnitSpec struct {
	ID           string `yaml:"id"`
	Bench        string `yaml:"bench,omitempty"`
	Kind         string `yaml:"kind,omitempty"`
	TurnDisabled bool   `yaml:"turn_disabled,omitempty"`
}

// GroupSpec declares one turn group in a fixture.
type GroupSpec struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name,omitempty"`
	Members []string `yaml:"members,omitempty"`
}

// EntrySpec is one rotation slot in a fixture's order.
type EntrySpec struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`
}

// Step is one scheduler action executed after setup.
type Step struct {
	Action       string `yaml:"action"`
	TargetKind   string `yaml:"target_kind,omitempty"`
	TargetID     string `yaml:"target_id,omitempty"`
	UnitID       string `yaml:"unit_id,omitempty"`
	TurnDisabled bool   `yaml:"turn_disabled,omitempty"`
}

// Fixture describes one encounter to seed: its roster, an optional
// explicit rotation, and scheduler steps to run afterwards.
type Fixture struct {
	Name   string      `yaml:"name"`
	Units  []UnitSpec  `yaml:"units"`
	Groups []GroupSpec `yaml:"groups,omitempty"`
	Order  []EntrySpec `yaml:"order,omitempty"`
	Steps  []Step      `yaml:"steps,omitempty"`
}

// Load decodes a fixture from YAML bytes.
func Load(data []byte) (Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fixture.validate(); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}

// LoadFile decodes a fixture from a YAML file.
func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	fixture, err := Load(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return fixture, nil
}

// LoadGlob decodes every fixture matching the pattern, sorted by path so
// runs are deterministic.
func LoadGlob(pattern string) ([]Fixture, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob fixtures: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fixtures match %q", pattern)
	}
	sort.Strings(paths)

	fixtures := make([]Fixture, 0, len(paths))
	for _, path := range paths {
		fixture, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

func (f Fixture) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("fixture name is required")
	}
	for i, unit := range f.Units {
		if strings.TrimSpace(unit.ID) == "" {
			return fmt.Errorf("unit %d: id is required", i)
		}
	}
	for i, group := range f.Groups {
		if strings.TrimSpace(group.ID) == "" {
			return fmt.Errorf("group %d: id is required", i)
		}
	}
	for i, entry := range f.Order {
		if strings.TrimSpace(entry.Kind) == "" || strings.TrimSpace(entry.ID) == "" {
			return fmt.Errorf("order entry %d: kind and id are required", i)
		}
	}
	for i, step := range f.Steps {
		switch step.Action {
		case ActionAdvance:
		case ActionTempGrant:
			if strings.TrimSpace(step.TargetKind) == "" || strings.TrimSpace(step.TargetID) == "" {
				return fmt.Errorf("step %d: temp_grant needs target_kind and target_id", i)
			}
		case ActionDisabledSet:
			if strings.TrimSpace(step.UnitID) == "" {
				return fmt.Errorf("step %d: disabled_set needs unit_id", i)
			}
		default:
			return fmt.Errorf("step %d: unknown action %q", i, step.Action)
		}
	}
	return nil
}
