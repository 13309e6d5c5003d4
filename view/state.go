// Package view owns the page's single view state: a table-driven state machine, the
// controller goroutine that serializes every change to it, the HTML renderer and the
// HTTP surface.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
)

// Phase is the state machine's current phase.
type Phase string

const (
	PhaseInitialLoading Phase = "initial_loading"
	PhaseLoaded         Phase = "loaded"
	PhaseRefreshing     Phase = "loaded_refreshing"
	PhaseError          Phase = "error"
)

// EventName names an input to the state machine.
type EventName string

const (
	EventSelectPersona    EventName = "select_persona"
	EventSelectStage      EventName = "select_stage"
	EventRetry            EventName = "retry"
	EventGenerationDone   EventName = "generation_done"
	EventGenerationFailed EventName = "generation_failed"
)

var (
	// ErrInvalidEvent is returned for an event the current phase does not accept.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrStageOutOfRange is returned when a stage index does not exist in the current journey.
	ErrStageOutOfRange = errors.New("stage index out of range")
)

// transitions lists, per phase, the accepted events and the phase each one leads to.
var transitions = map[Phase]map[EventName]Phase{
	PhaseInitialLoading: {
		EventGenerationDone:   PhaseLoaded,
		EventGenerationFailed: PhaseError,
		EventSelectPersona:    PhaseInitialLoading,
	},
	PhaseLoaded: {
		EventSelectPersona: PhaseRefreshing,
		EventSelectStage:   PhaseLoaded,
	},
	PhaseRefreshing: {
		EventGenerationDone:   PhaseLoaded,
		EventGenerationFailed: PhaseError,
		EventSelectPersona:    PhaseRefreshing,
		EventSelectStage:      PhaseRefreshing,
	},
	PhaseError: {
		EventRetry:         PhaseInitialLoading,
		EventSelectPersona: PhaseInitialLoading,
	},
}

// State is one immutable snapshot of the view. Journey is shared between snapshots
// and never mutated; a new generation replaces the pointer.
type State struct {
	Phase       Phase
	PersonaType string
	Journey     *journey.Journey
	ActiveStage int

	// Seq is the sequence number of the latest issued generation. Results carrying any
	// other number are stale.
	Seq uint64

	// Version increases on every visible change.
	Version uint64

	// Err is the last generation failure. It is kept for logs and never rendered.
	Err error
}

// Event is an input to Apply. Only the fields relevant to Name are read.
type Event struct {
	Name        EventName
	PersonaType string
	StageIndex  int
	Seq         uint64
	Journey     *journey.Journey
	Err         error
}

// Outcome describes what applying an event requires from the caller.
type Outcome struct {
	// Changed is set when the returned state differs from the input.
	Changed bool

	// Generate is set when a generation for the returned PersonaType and Seq must start.
	Generate bool

	// Stale is set when a generation result was discarded.
	Stale bool
}

// NewState returns the state before the first generation is requested.
func NewState(personaType string) State {
	return State{Phase: PhaseInitialLoading, PersonaType: normalizePersonaType(personaType)}
}

// HasJourney reports whether a journey is on screen.
func (s State) HasJourney() bool {
	return s.Journey != nil && (s.Phase == PhaseLoaded || s.Phase == PhaseRefreshing)
}

// Active returns the active stage, if any.
func (s State) Active() (journey.Stage, bool) {
	if !s.HasJourney() || s.ActiveStage < 0 || s.ActiveStage >= len(s.Journey.Stages) {
		return journey.Stage{}, false
	}
	return s.Journey.Stages[s.ActiveStage], true
}

// Apply runs one event through the transition table.
func (s State) Apply(ev Event) (State, Outcome, error) {
	if ev.Name == EventGenerationDone || ev.Name == EventGenerationFailed {
		if ev.Seq != s.Seq {
			return s, Outcome{Stale: true}, nil
		}
	}

	dest, ok := transitions[s.Phase][ev.Name]
	if !ok {
		return s, Outcome{}, fmt.Errorf("%w %s for state %s", ErrInvalidEvent, ev.Name, s.Phase)
	}

	next := s
	out := Outcome{Changed: true}

	switch ev.Name {
	case EventSelectPersona:
		next.PersonaType = normalizePersonaType(ev.PersonaType)
		next.Seq++
		out.Generate = true
	case EventRetry:
		next.Seq++
		out.Generate = true
	case EventSelectStage:
		if s.Journey == nil || ev.StageIndex < 0 || ev.StageIndex >= len(s.Journey.Stages) {
			return s, Outcome{}, fmt.Errorf("%w: %d", ErrStageOutOfRange, ev.StageIndex)
		}
		if ev.StageIndex == s.ActiveStage {
			return s, Outcome{}, nil
		}
		next.ActiveStage = ev.StageIndex
	case EventGenerationDone:
		if ev.Journey == nil {
			return s, Outcome{}, fmt.Errorf("%w: %s without journey", ErrInvalidEvent, ev.Name)
		}
		next.Journey = ev.Journey
		next.ActiveStage = 0
		next.Err = nil
	case EventGenerationFailed:
		next.Journey = nil
		next.ActiveStage = 0
		next.Err = ev.Err
	}

	next.Phase = dest
	if next.Phase == PhaseInitialLoading {
		next.Journey = nil
	}
	next.Version++
	return next, out, nil
}

func normalizePersonaType(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return journey.DefaultPersonaType
	}
	return p
}
