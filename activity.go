// Package screenplay implements the actor execution model of the Screenplay
// pattern: actors perform composable activities using abilities, answer
// questions about system state, and collect artifacts for reporting.
//
// Activity descriptions may contain the report.ActorToken placeholder
// ("#actor"), which is replaced with the performing actor's name at
// reporting time, never at construction time.
package screenplay

import (
	"context"
	"fmt"
	"runtime"
)

// Location identifies where an activity was constructed, for diagnostics.
type Location struct {
	File     string
	Line     int
	Function string
}

func (l Location) String() string {
	if l.File == "" {
		return "unknown location"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CallerLocation captures a construction site skip frames above the caller.
// Locations are recorded at exactly one layer: the exported constructors
// Where and TaskWhere. Layers that build activities on behalf of their own
// callers should capture the location themselves and pass it to WhereAt or
// TaskWhereAt.
func CallerLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}
	}
	loc := Location{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	return loc
}

// Activity is a unit of work an actor performs: an atomic interaction or a
// composite task. Activities are immutable once constructed.
type Activity interface {
	// PerformAs executes the activity as the given actor.
	PerformAs(ctx context.Context, actor PerformsActivities) error
	// Description returns the description template with the actor-name
	// token unresolved.
	Description() string
	// Location returns the construction site.
	Location() Location
}

type interaction struct {
	description string
	loc         Location
	fn          func(ctx context.Context, actor PerformsActivities) error
}

// Where builds an anonymous interaction whose PerformAs invokes fn. Panics
// raised by fn are recovered and returned as failures so that the engine
// sees a uniform error path regardless of how fn is implemented.
func Where(description string, fn func(ctx context.Context, actor PerformsActivities) error) Activity {
	return WhereAt(CallerLocation(1), description, fn)
}

// WhereAt is Where with an explicit construction location.
func WhereAt(loc Location, description string, fn func(ctx context.Context, actor PerformsActivities) error) Activity {
	return &interaction{description: description, loc: loc, fn: fn}
}

func (i *interaction) PerformAs(ctx context.Context, actor PerformsActivities) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return i.fn(ctx, actor)
}

func (i *interaction) Description() string { return i.description }
func (i *interaction) Location() Location  { return i.loc }

type task struct {
	description string
	loc         Location
	activities  []Activity
}

// TaskWhere builds a composite task from an ordered list of child
// activities. Performing the task is exactly the actor attempting each
// child in order; composition is transparent to sequencing and failure
// behavior.
func TaskWhere(description string, activities ...Activity) Activity {
	return TaskWhereAt(CallerLocation(1), description, activities...)
}

// TaskWhereAt is TaskWhere with an explicit construction location.
func TaskWhereAt(loc Location, description string, activities ...Activity) Activity {
	children := make([]Activity, len(activities))
	copy(children, activities)
	return &task{description: description, loc: loc, activities: children}
}

func (t *task) PerformAs(ctx context.Context, actor PerformsActivities) error {
	return actor.AttemptsTo(ctx, t.activities...)
}

func (t *task) Description() string { return t.description }
func (t *task) Location() Location  { return t.loc }
