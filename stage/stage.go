// Package stage manages the cast of a scenario run: it creates actors on
// first use, tracks who is in the spotlight, and discards everyone when the
// curtain falls.
package stage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"screenplay"
	"screenplay/report"
)

// Cast prepares actors when the stage first calls them: typically by
// granting the abilities every actor of this scenario needs.
type Cast interface {
	Prepare(actor *screenplay.Actor) *screenplay.Actor
}

// CastFunc adapts a function to the Cast interface.
type CastFunc func(actor *screenplay.Actor) *screenplay.Actor

func (f CastFunc) Prepare(actor *screenplay.Actor) *screenplay.Actor { return f(actor) }

// Stage hands out actors by name, creating each one once via the cast.
type Stage struct {
	cast   Cast
	hub    *report.Hub
	logger zerolog.Logger

	mu        sync.Mutex
	actors    map[string]*screenplay.Actor
	order     []string
	spotlight *screenplay.Actor
}

// Option configures stage construction.
type Option func(*Stage)

// WithHub wires every actor created by the stage to a reporting hub.
func WithHub(h *report.Hub) Option {
	return func(s *Stage) { s.hub = h }
}

// WithLogger sets the diagnostic logger handed to every actor.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Stage) { s.logger = logger }
}

// NewStage creates a stage with the given cast.
func NewStage(cast Cast, opts ...Option) *Stage {
	s := &Stage{
		cast:   cast,
		logger: zerolog.Nop(),
		actors: make(map[string]*screenplay.Actor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActorCalled returns the actor with the given name, creating and preparing
// it on first call. The returned actor moves into the spotlight.
func (s *Stage) ActorCalled(name string) *screenplay.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.actors[name]
	if !ok {
		actor = screenplay.NewActor(name,
			screenplay.WithHub(s.hub),
			screenplay.WithLogger(s.logger.With().Str("actor", name).Logger()),
		)
		if s.cast != nil {
			actor = s.cast.Prepare(actor)
		}
		s.actors[name] = actor
		s.order = append(s.order, name)
	}
	s.spotlight = actor
	return actor
}

// ActorInTheSpotlight returns the most recently called actor.
func (s *Stage) ActorInTheSpotlight() (*screenplay.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spotlight == nil {
		return nil, fmt.Errorf("no actor is in the spotlight yet (call ActorCalled first)")
	}
	return s.spotlight, nil
}

// DrawTheCurtain discards every actor the stage created. Actors are
// discarded concurrently with respect to each other, each owning its own
// abilities. All failures are aggregated; a failing actor never blocks the
// cleanup of the rest.
func (s *Stage) DrawTheCurtain(ctx context.Context) error {
	s.mu.Lock()
	actors := make([]*screenplay.Actor, 0, len(s.order))
	for _, name := range s.order {
		actors = append(actors, s.actors[name])
	}
	s.actors = make(map[string]*screenplay.Actor)
	s.order = nil
	s.spotlight = nil
	s.mu.Unlock()

	var errsMu sync.Mutex
	var errs []error
	g, ctx := errgroup.WithContext(ctx)
	for _, actor := range actors {
		actor := actor
		g.Go(func() error {
			if err := actor.Discard(ctx); err != nil {
				errsMu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", actor.Name(), err))
				errsMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs, never through the group

	return errors.Join(errs...)
}
