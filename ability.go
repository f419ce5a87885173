package screenplay

import (
	"context"
	"fmt"
)

// AbilityKind tags a capability; an actor holds at most one ability per kind.
type AbilityKind string

// Ability is a capability instance granting an actor access to a specific
// kind of external interaction. Abilities that own external resources
// should also implement Discardable.
type Ability interface {
	Kind() AbilityKind
}

// Discardable is the optional release hook for abilities owning external
// resources. Discard must be idempotent and must tolerate a resource that
// was never initialized.
type Discardable interface {
	Discard(ctx context.Context) error
}

// AbilityAs looks up the actor's ability of the kind and asserts its
// concrete type. It fails with the actor's *AbilityNotFoundError when the
// kind is missing, or a descriptive error when the attached instance has an
// unexpected type.
func AbilityAs[T Ability](actor PerformsActivities, kind AbilityKind) (T, error) {
	var zero T
	ability, err := actor.AbilityTo(kind)
	if err != nil {
		return zero, err
	}
	typed, ok := ability.(T)
	if !ok {
		return zero, fmt.Errorf("ability of kind %q attached to %s is a %T, not a %T", kind, actor.Name(), ability, zero)
	}
	return typed, nil
}
