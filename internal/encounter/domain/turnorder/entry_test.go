package turnorder

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/warbandtools/skirmish/internal/platform/errors"
)

func TestEntryDecodeCanonicalForm(t *testing.T) {
	var entry Entry
	if err := json.Unmarshal([]byte(`{"kind":"group","id":"g1"}`), &entry); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if entry != GroupEntry("g1") {
		t.Fatalf("entry = %+v, want g1 group entry", entry)
	}
}

func TestEntryDecodeRejectsUnknownKind(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "legacy bare string shape", data: `{"kind":"","id":"u1"}`},
		{name: "misspelled kind", data: `{"kind":"units","id":"u1"}`},
		{name: "uppercase kind", data: `{"kind":"Unit","id":"u1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry Entry
			err := json.Unmarshal([]byte(tt.data), &entry)
			if !errors.Is(err, apperrors.New(apperrors.CodeTurnEntryInvalidKind, "")) {
				t.Fatalf("expected invalid-kind error, got %v", err)
			}
		})
	}
}

func TestEntryDecodeRejectsEmptyID(t *testing.T) {
	var entry Entry
	err := json.Unmarshal([]byte(`{"kind":"unit","id":"  "}`), &entry)
	if !errors.Is(err, apperrors.New(apperrors.CodeTurnEntryIDRequired, "")) {
		t.Fatalf("expected id-required error, got %v", err)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	data, err := json.Marshal(UnitEntry("u1"))
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	var decoded Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if decoded != UnitEntry("u1") {
		t.Fatalf("decoded = %+v, want u1", decoded)
	}
}

func TestTokenUsesEntryWireForm(t *testing.T) {
	data, err := json.Marshal(GroupToken("g1"))
	if err != nil {
		t.Fatalf("marshal token: %v", err)
	}
	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		t.Fatalf("unmarshal token: %v", err)
	}
	if token != GroupToken("g1") {
		t.Fatalf("token = %+v, want g1", token)
	}
	if token.Entry() != GroupEntry("g1") {
		t.Fatalf("token entry = %+v, want g1 entry", token.Entry())
	}
}
