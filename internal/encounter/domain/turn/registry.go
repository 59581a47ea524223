package turn

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

// RegisterCommands registers turn commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeOrderSet, ValidatePayload: validateOrderSetPayload},
		{Type: CommandTypeAdvance},
		{Type: CommandTypeTempGrant, ValidatePayload: validateTempGrantPayload},
		{Type: CommandTypeDisabledSet, ValidatePayload: validateDisabledSetPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers turn events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: event.TypeTurnOrderSet, ValidatePayload: validateOrderSetPayload},
		{Type: event.TypeTurnAdvanced},
		{Type: event.TypeTurnTempGranted, ValidatePayload: validateTempGrantPayload},
		{Type: event.TypeTurnDisabledSet, ValidatePayload: validateDisabledSetPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateOrderSetPayload(payloadJSON []byte) error {
	var payload OrderSetPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode order set payload: %w", err)
	}
	return nil
}

func validateTempGrantPayload(payloadJSON []byte) error {
	var payload TempGrantPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode temp grant payload: %w", err)
	}
	if strings.TrimSpace(payload.Target.ID) == "" {
		return errors.New("temp turn target is required")
	}
	return nil
}

func validateDisabledSetPayload(payloadJSON []byte) error {
	var payload DisabledSetPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode disabled set payload: %w", err)
	}
	if strings.TrimSpace(payload.UnitID) == "" {
		return errors.New("unit id is required")
	}
	return nil
}
