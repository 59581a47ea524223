// Package errors provides structured error handling for skirmish services.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Encounter errors
	CodeEncounterIDRequired Code = "ENCOUNTER_ID_REQUIRED"

	// Turn order errors
	CodeTurnEntryUnknownRef    Code = "TURN_ENTRY_UNKNOWN_REF"
	CodeTurnEntryDuplicateUnit Code = "TURN_ENTRY_DUPLICATE_UNIT"
	CodeTurnEntryInvalidKind   Code = "TURN_ENTRY_INVALID_KIND"
	CodeTurnEntryIDRequired    Code = "TURN_ENTRY_ID_REQUIRED"

	// Roster errors
	CodeUnitIDRequired     Code = "UNIT_ID_REQUIRED"
	CodeUnitAlreadyExists  Code = "UNIT_ALREADY_EXISTS"
	CodeUnitInvalidBench   Code = "UNIT_INVALID_BENCH"
	CodeUnitInvalidKind    Code = "UNIT_INVALID_KIND"
	CodeGroupIDRequired    Code = "GROUP_ID_REQUIRED"
	CodeGroupAlreadyExists Code = "GROUP_ALREADY_EXISTS"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Validation errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInternal        Code = "INTERNAL"
)

// GRPCCode maps the domain error code to a gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeNotFound:
		return codes.NotFound
	case CodeTurnEntryUnknownRef,
		CodeTurnEntryDuplicateUnit,
		CodeTurnEntryInvalidKind,
		CodeTurnEntryIDRequired,
		CodeEncounterIDRequired,
		CodeUnitIDRequired,
		CodeUnitInvalidBench,
		CodeUnitInvalidKind,
		CodeGroupIDRequired,
		CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeUnitAlreadyExists, CodeGroupAlreadyExists:
		return codes.AlreadyExists
	case CodeInternal:
		return codes.Internal
	default:
		return codes.Unknown
	}
}
