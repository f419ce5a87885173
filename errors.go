package screenplay

import (
	"errors"
	"fmt"
)

// AbilityNotFoundError reports that an actor was asked to use an ability it
// was never given. It is a distinct type so integrators can produce
// actionable diagnostics instead of a generic nil dereference.
type AbilityNotFoundError struct {
	Actor string
	Kind  AbilityKind
}

func (e *AbilityNotFoundError) Error() string {
	return fmt.Sprintf("%s can't do that: no ability of kind %q attached (give it to the actor with WhoCan)", e.Actor, e.Kind)
}

// ActivityError wraps a failure raised while an activity was performing,
// preserving the original cause. Nested tasks wrap at every level, so the
// full description stack from the outermost task down to the failing leaf
// is reconstructable via DescriptionStack or errors.Unwrap.
type ActivityError struct {
	ActivityDescription string // actor name already resolved
	Actor               string
	Loc                 Location
	Cause               error
}

func (e *ActivityError) Error() string {
	return fmt.Sprintf("%q failed at %s: %v", e.ActivityDescription, e.Loc, e.Cause)
}

func (e *ActivityError) Unwrap() error { return e.Cause }

// DescriptionStack extracts the chain of activity descriptions from a
// propagated failure, outermost first. Returns nil for non-activity errors.
func DescriptionStack(err error) []string {
	var stack []string
	for err != nil {
		var ae *ActivityError
		if !errors.As(err, &ae) {
			break
		}
		stack = append(stack, ae.ActivityDescription)
		err = ae.Cause
	}
	return stack
}

// RootCause unwraps a propagated failure down to the original error raised
// by the failing leaf interaction.
func RootCause(err error) error {
	for {
		var ae *ActivityError
		if !errors.As(err, &ae) {
			return err
		}
		err = ae.Cause
	}
}
