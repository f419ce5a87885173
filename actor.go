package screenplay

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"screenplay/artifact"
	"screenplay/report"
)

// PerformsActivities is the capability view an activity receives while it
// runs: ability lookup, question answering, artifact collection, and nested
// activities. Lifecycle operations (WhoCan, Discard) are deliberately not
// part of this view.
type PerformsActivities interface {
	Name() string
	AttemptsTo(ctx context.Context, activities ...Activity) error
	AbilityTo(kind AbilityKind) (Ability, error)
	Collect(a artifact.Artifact)
	CollectFrom(name string, typ artifact.Type, producer func() ([]byte, error))
	Logger() zerolog.Logger
}

// Actor performs activities in strict declared order using its abilities.
// An Actor is NOT safe for concurrent use; independent actors may run
// concurrently with respect to each other, each owning its own abilities
// and artifacts.
type Actor struct {
	name      string
	abilities map[AbilityKind]Ability
	collector *artifact.Collector
	hub       *report.Hub
	logger    zerolog.Logger

	activityID string // correlation ID of the currently performing activity
	discarded  bool
}

// ActorOption configures actor construction.
type ActorOption func(*Actor)

// WithHub wires the actor's reporting events to a hub.
func WithHub(h *report.Hub) ActorOption {
	return func(a *Actor) { a.hub = h }
}

// WithLogger sets the actor's diagnostic logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) ActorOption {
	return func(a *Actor) { a.logger = logger }
}

// WithCollector replaces the actor's artifact collector.
func WithCollector(c *artifact.Collector) ActorOption {
	return func(a *Actor) { a.collector = c }
}

// NewActor creates a named actor with no abilities.
func NewActor(name string, opts ...ActorOption) *Actor {
	a := &Actor{
		name:      name,
		abilities: make(map[AbilityKind]Ability),
		collector: artifact.NewCollector(name),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the actor's name, unique within a run.
func (a *Actor) Name() string { return a.name }

// Logger returns the actor's diagnostic logger.
func (a *Actor) Logger() zerolog.Logger { return a.logger }

// Artifacts returns the actor's artifact collector.
func (a *Actor) Artifacts() *artifact.Collector { return a.collector }

// WhoCan attaches abilities, one per kind, last write wins per kind.
func (a *Actor) WhoCan(abilities ...Ability) *Actor {
	for _, ability := range abilities {
		a.abilities[ability.Kind()] = ability
	}
	return a
}

// AbilityTo returns the exact ability instance attached under kind, or a
// *AbilityNotFoundError naming the actor and the missing kind.
func (a *Actor) AbilityTo(kind AbilityKind) (Ability, error) {
	ability, ok := a.abilities[kind]
	if !ok {
		return nil, &AbilityNotFoundError{Actor: a.name, Kind: kind}
	}
	return ability, nil
}

// AttemptsTo performs each activity strictly in declared order. The first
// failure stops the sequence immediately and is returned wrapped in
// *ActivityError with the original cause preserved; remaining activities
// never run. Artifacts collected before the failure stay collected. Nested
// tasks re-enter AttemptsTo on the same actor, never a new scope.
func (a *Actor) AttemptsTo(ctx context.Context, activities ...Activity) error {
	for _, act := range activities {
		if err := a.perform(ctx, act); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actor) perform(ctx context.Context, act Activity) error {
	id := uuid.NewString()
	parent := a.activityID
	a.activityID = id
	defer func() { a.activityID = parent }()

	resolved := report.ResolveDescription(act.Description(), a.name)
	loc := act.Location()

	a.logger.Debug().Str("activity", id).Str("location", loc.String()).Msg(resolved)
	a.publish(report.Event{
		Type:        report.EventActivityStarted,
		Actor:       a.name,
		ActivityID:  id,
		ParentID:    parent,
		Description: resolved,
		Location:    loc.String(),
	})

	err := a.run(ctx, act)
	if err != nil {
		err = &ActivityError{
			ActivityDescription: resolved,
			Actor:               a.name,
			Loc:                 loc,
			Cause:               err,
		}
	}

	finished := report.Event{
		Type:        report.EventActivityFinished,
		Actor:       a.name,
		ActivityID:  id,
		ParentID:    parent,
		Description: resolved,
		Location:    loc.String(),
		Outcome:     report.OutcomeSuccess,
	}
	if err != nil {
		finished.Outcome = report.OutcomeFailure
		finished.Error = err.Error()
	}
	a.publish(finished)

	return err
}

// run invokes PerformAs, converting panics from arbitrary Activity
// implementations into failures.
func (a *Actor) run(ctx context.Context, act Activity) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return act.PerformAs(ctx, a)
}

// Collect appends an artifact to the actor's collector, attributed to the
// currently performing activity.
func (a *Actor) Collect(art artifact.Artifact) {
	recorded := a.collector.Collect(art, a.activityID)
	a.publish(report.Event{
		Type:       report.EventArtifactCollected,
		Actor:      a.name,
		ActivityID: recorded.ActivityID,
		Artifact:   recorded.Name,
	})
}

// CollectFrom records the artifact produced by producer. A producer failure
// never aborts the activity: it is recorded as a diagnostic artifact and
// logged at warn level.
func (a *Actor) CollectFrom(name string, typ artifact.Type, producer func() ([]byte, error)) {
	recorded, err := a.collector.CollectFrom(name, typ, a.activityID, producer)
	if err != nil {
		a.logger.Warn().Err(err).Str("artifact", name).Msg("artifact collection failed")
	}
	a.publish(report.Event{
		Type:       report.EventArtifactCollected,
		Actor:      a.name,
		ActivityID: recorded.ActivityID,
		Artifact:   recorded.Name,
	})
}

// Discard releases every discardable ability, continuing past individual
// failures so that one misbehaving ability cannot block cleanup of the
// rest. All failures are aggregated into the returned error. Discard is
// idempotent; a second call is a no-op.
func (a *Actor) Discard(ctx context.Context) error {
	if a.discarded {
		return nil
	}
	a.discarded = true

	kinds := make([]string, 0, len(a.abilities))
	for kind := range a.abilities {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	var errs []error
	for _, kind := range kinds {
		discardable, ok := a.abilities[AbilityKind(kind)].(Discardable)
		if !ok {
			continue
		}
		if err := a.discardOne(ctx, discardable); err != nil {
			a.logger.Warn().Err(err).Str("ability", kind).Msg("ability discard failed")
			errs = append(errs, fmt.Errorf("discarding ability %q of %s: %w", kind, a.name, err))
		}
	}
	a.abilities = make(map[AbilityKind]Ability)

	a.publish(report.Event{
		Type:  report.EventActorDiscarded,
		Actor: a.name,
	})
	return errors.Join(errs...)
}

func (a *Actor) discardOne(ctx context.Context, d Discardable) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.Discard(ctx)
}

func (a *Actor) publish(event report.Event) {
	if a.hub == nil {
		return
	}
	a.hub.Publish(event)
}
