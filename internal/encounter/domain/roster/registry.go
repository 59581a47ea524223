package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
)

// RegisterCommands registers roster commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeUnitCreate, ValidatePayload: validateUnitCreatePayload},
		{Type: CommandTypeUnitUpdate, ValidatePayload: validateUnitUpdatePayload},
		{Type: CommandTypeUnitDelete, ValidatePayload: validateUnitDeletePayload},
		{Type: CommandTypeGroupCreate, ValidatePayload: validateGroupCreatePayload},
		{Type: CommandTypeGroupDelete, ValidatePayload: validateGroupDeletePayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers roster events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: event.TypeUnitCreated, ValidatePayload: validateUnitCreatePayload},
		{Type: event.TypeUnitUpdated, ValidatePayload: validateUnitUpdatePayload},
		{Type: event.TypeUnitDeleted, ValidatePayload: validateUnitDeletePayload},
		{Type: event.TypeGroupCreated, ValidatePayload: validateGroupCreatePayload},
		{Type: event.TypeGroupDeleted, ValidatePayload: validateGroupDeletePayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateUnitCreatePayload(payloadJSON []byte) error {
	var payload UnitCreatePayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode unit create payload: %w", err)
	}
	if strings.TrimSpace(payload.UnitID) == "" {
		return errors.New("unit id is required")
	}
	return nil
}

func validateUnitUpdatePayload(payloadJSON []byte) error {
	var payload UnitUpdatePayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode unit update payload: %w", err)
	}
	if strings.TrimSpace(payload.UnitID) == "" {
		return errors.New("unit id is required")
	}
	return nil
}

func validateUnitDeletePayload(payloadJSON []byte) error {
	var payload UnitDeletePayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode unit delete payload: %w", err)
	}
	if strings.TrimSpace(payload.UnitID) == "" {
		return errors.New("unit id is required")
	}
	return nil
}

func validateGroupCreatePayload(payloadJSON []byte) error {
	var payload GroupCreatePayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode group create payload: %w", err)
	}
	if strings.TrimSpace(payload.GroupID) == "" {
		return errors.New("group id is required")
	}
	return nil
}

func validateGroupDeletePayload(payloadJSON []byte) error {
	var payload GroupDeletePayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return fmt.Errorf("decode group delete payload: %w", err)
	}
	if strings.TrimSpace(payload.GroupID) == "" {
		return errors.New("group id is required")
	}
	return nil
}
