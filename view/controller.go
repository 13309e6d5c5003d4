package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
)

// ErrStopped is returned by controller calls once Run has returned.
var ErrStopped = errors.New("view controller stopped")

//go:generate mockgen -source=controller.go -destination=mocks/mock_generator.go -package=mocks

// Generator produces a journey for a persona type.
type Generator interface {
	Generate(ctx context.Context, personaType string) (journey.Journey, error)
}

type command struct {
	ev    Event
	reply chan commandResult
}

type commandResult struct {
	state State
	err   error
}

// Controller is the single owner of the view State. Run applies commands and generation
// results one at a time; every other method talks to it over channels.
type Controller struct {
	gen    Generator
	logger *slog.Logger

	initial State
	cmds    chan command
	results chan Event
	done    chan struct{}

	subsMu sync.Mutex
	subs   map[string]chan uint64
}

// NewController returns a controller that will load personaType first.
func NewController(gen Generator, personaType string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gen:     gen,
		logger:  logger,
		initial: NewState(personaType),
		cmds:    make(chan command),
		results: make(chan Event),
		done:    make(chan struct{}),
		subs:    make(map[string]chan uint64),
	}
}

// Run issues the initial generation and serves commands until ctx is cancelled.
// In-flight generations share ctx and are abandoned with it.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	state := c.initial
	state = c.apply(ctx, state, Event{Name: EventSelectPersona, PersonaType: state.PersonaType}, nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-c.cmds:
			state = c.apply(ctx, state, cmd.ev, cmd.reply)
		case ev := <-c.results:
			state = c.apply(ctx, state, ev, nil)
		}
	}
}

func (c *Controller) apply(ctx context.Context, state State, ev Event, reply chan commandResult) State {
	if ev.Name == "" {
		reply <- commandResult{state: state}
		return state
	}

	next, out, err := state.Apply(ev)
	switch {
	case err != nil:
		c.logger.Debug("view event rejected", "event", ev.Name, "phase", state.Phase, "error", err)
	case out.Stale:
		c.logger.Info("discarding stale generation result", "seq", ev.Seq, "latest_seq", state.Seq, "event", ev.Name)
	case ev.Name == EventGenerationFailed:
		c.logger.Warn("journey generation failed", "seq", ev.Seq, "persona_type", state.PersonaType, "kind", journey.Kind(ev.Err), "error", ev.Err, "output_preview", journey.OutputPreview(ev.Err))
	}
	if out.Generate {
		c.startGeneration(ctx, next.Seq, next.PersonaType)
	}
	if out.Changed {
		c.logger.Debug("view state changed", "event", ev.Name, "from", state.Phase, "to", next.Phase, "version", next.Version)
		c.notify(next.Version)
	}
	if reply != nil {
		reply <- commandResult{state: next, err: err}
	}
	return next
}

func (c *Controller) startGeneration(ctx context.Context, seq uint64, personaType string) {
	requestID := uuid.NewString()
	c.logger.Info("journey generation started", "seq", seq, "request_id", requestID, "persona_type", personaType)

	go func() {
		j, err := c.gen.Generate(ctx, personaType)
		ev := Event{Name: EventGenerationDone, Seq: seq, Journey: &j}
		if err != nil {
			ev = Event{Name: EventGenerationFailed, Seq: seq, Err: err}
		} else {
			c.logger.Info("journey generation finished", "seq", seq, "request_id", requestID, "stages", len(j.Stages))
		}
		select {
		case c.results <- ev:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) do(ctx context.Context, ev Event) (State, error) {
	reply := make(chan commandResult, 1)
	select {
	case c.cmds <- command{ev: ev, reply: reply}:
	case <-c.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.state, res.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	return c.do(ctx, Event{})
}

// SelectPersona starts a generation for personaType.
func (c *Controller) SelectPersona(ctx context.Context, personaType string) (State, error) {
	return c.do(ctx, Event{Name: EventSelectPersona, PersonaType: personaType})
}

// SelectStage makes index the active stage. Selecting the active stage changes nothing.
func (c *Controller) SelectStage(ctx context.Context, index int) (State, error) {
	return c.do(ctx, Event{Name: EventSelectStage, StageIndex: index})
}

// Retry re-issues the generation for the current persona type from the error state.
func (c *Controller) Retry(ctx context.Context) (State, error) {
	return c.do(ctx, Event{Name: EventRetry})
}

// Subscribe registers for version notifications. A slow subscriber may miss
// intermediate versions. The returned cancel func must be called.
func (c *Controller) Subscribe() (<-chan uint64, func()) {
	id := uuid.NewString()
	ch := make(chan uint64, 1)

	c.subsMu.Lock()
	c.subs[id] = ch
	c.subsMu.Unlock()

	return ch, func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *Controller) notify(version uint64) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- version:
		default:
			// Drop the queued version in favor of the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- version:
			default:
			}
		}
	}
}
