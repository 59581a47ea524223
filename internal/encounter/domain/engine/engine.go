// Package engine executes encounter commands: it validates them against
// the shared registries, routes them to the owning decider, appends the
// emitted events to the journal, and folds them into the aggregate. It is
// the single serialization point for one encounter's mutations.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/warbandtools/skirmish/internal/encounter/domain/aggregate"
	"github.com/warbandtools/skirmish/internal/encounter/domain/command"
	"github.com/warbandtools/skirmish/internal/encounter/domain/event"
	"github.com/warbandtools/skirmish/internal/encounter/domain/roster"
	"github.com/warbandtools/skirmish/internal/encounter/domain/turn"
)

var (
	// ErrCommandRegistryRequired indicates a missing command registry.
	ErrCommandRegistryRequired = errors.New("command registry is required")
	// ErrEventRegistryRequired indicates a missing event registry.
	ErrEventRegistryRequired = errors.New("event registry is required")
	// ErrStateLoaderRequired indicates a missing state loader.
	ErrStateLoaderRequired = errors.New("state loader is required")
	// ErrUnhandledEventType indicates the fold router has no fold for an event.
	ErrUnhandledEventType = errors.New("unhandled event type")
)

// EventJournal appends events to the encounter journal.
type EventJournal interface {
	Append(ctx context.Context, evt event.Event) (event.Event, error)
}

// StateLoader loads the aggregate state a decider runs against.
type StateLoader interface {
	Load(ctx context.Context, encounterID string) (aggregate.State, error)
}

// StateSaver persists the aggregate state after a successful fold.
type StateSaver interface {
	Save(ctx context.Context, encounterID string, lastSeq uint64, state aggregate.State) error
}

// Registries bundles the command and event registries with every domain
// decider and fold registered.
type Registries struct {
	Commands *command.Registry
	Events   *event.Registry
}

// NewRegistries builds registries covering the roster and turn domains.
func NewRegistries() (Registries, error) {
	commands := command.NewRegistry()
	events := event.NewRegistry()
	if err := roster.RegisterCommands(commands); err != nil {
		return Registries{}, err
	}
	if err := turn.RegisterCommands(commands); err != nil {
		return Registries{}, err
	}
	if err := roster.RegisterEvents(events); err != nil {
		return Registries{}, err
	}
	if err := turn.RegisterEvents(events); err != nil {
		return Registries{}, err
	}
	return Registries{Commands: commands, Events: events}, nil
}

// Decide routes a command to the decider that owns its domain.
func Decide(state aggregate.State, cmd command.Command, now func() time.Time) command.Decision {
	switch event.Type(cmd.Type).Domain() {
	case "unit", "group":
		return roster.Decide(state, cmd, now)
	case "turn":
		return turn.Decide(state, cmd, now)
	}
	return command.Reject(command.Rejection{Code: "UNSUPPORTED_COMMAND", Message: "no decider owns this command"})
}

// Fold routes an event to the fold that owns its domain.
func Fold(state aggregate.State, evt event.Event) (aggregate.State, error) {
	switch evt.Type.Domain() {
	case "unit", "group":
		return roster.Fold(state, evt)
	case "turn":
		return turn.Fold(state, evt)
	}
	return state, ErrUnhandledEventType
}

// Handler validates, decides, journals, and folds encounter commands.
type Handler struct {
	Registries Registries
	Journal    EventJournal
	Loader     StateLoader
	Saver      StateSaver
	Now        func() time.Time
}

// Result captures execution outcomes for one command.
type Result struct {
	Decision command.Decision
	State    aggregate.State
	LastSeq  uint64
}

// Execute runs one command end to end. Rejections come back inside the
// decision; errors mean the command could not be processed at all.
func (h Handler) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	if h.Registries.Commands == nil {
		return Result{}, ErrCommandRegistryRequired
	}
	if h.Registries.Events == nil {
		return Result{}, ErrEventRegistryRequired
	}
	if h.Loader == nil {
		return Result{}, ErrStateLoaderRequired
	}

	validated, err := h.Registries.Commands.ValidateForDecision(cmd)
	if err != nil {
		return Result{}, err
	}
	cmd = validated

	state, err := h.Loader.Load(ctx, cmd.EncounterID)
	if err != nil {
		return Result{}, err
	}

	now := h.Now
	if now == nil {
		now = time.Now
	}
	decision := Decide(state, cmd, now)
	if len(decision.Rejections) > 0 {
		return Result{Decision: decision, State: state}, nil
	}

	vetted := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		validated, err := h.Registries.Events.ValidateForAppend(evt)
		if err != nil {
			return Result{}, err
		}
		vetted = append(vetted, validated)
	}
	decision.Events = vetted

	var lastSeq uint64
	if h.Journal != nil {
		stored := make([]event.Event, 0, len(decision.Events))
		for _, evt := range decision.Events {
			appended, err := h.Journal.Append(ctx, evt)
			if err != nil {
				return Result{}, err
			}
			stored = append(stored, appended)
			lastSeq = appended.Seq
		}
		decision.Events = stored
	}

	for _, evt := range decision.Events {
		state, err = Fold(state, evt)
		if err != nil {
			return Result{}, err
		}
	}

	if h.Saver != nil {
		if err := h.Saver.Save(ctx, cmd.EncounterID, lastSeq, state); err != nil {
			return Result{}, err
		}
	}

	return Result{Decision: decision, State: state, LastSeq: lastSeq}, nil
}
