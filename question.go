package screenplay

import "context"

// Question is a deferred, actor-scoped computation yielding a value. It is
// stateless and re-evaluatable: AnsweredBy resolves the value at call time,
// never at construction time, since a question may reference actor state
// that only exists once activities have run.
type Question[T any] interface {
	AnsweredBy(ctx context.Context, actor PerformsActivities) (T, error)
	Description() string
}

type question[T any] struct {
	description string
	fn          func(ctx context.Context, actor PerformsActivities) (T, error)
}

// NewQuestion builds a question from a function that is invoked only when
// the question is answered. Composite questions answer their parts inside
// fn, giving normal left-to-right, depth-first resolution order.
func NewQuestion[T any](description string, fn func(ctx context.Context, actor PerformsActivities) (T, error)) Question[T] {
	return &question[T]{description: description, fn: fn}
}

func (q *question[T]) AnsweredBy(ctx context.Context, actor PerformsActivities) (T, error) {
	return q.fn(ctx, actor)
}

func (q *question[T]) Description() string { return q.description }

// Ask resolves a question against an actor at call time.
func Ask[T any](ctx context.Context, actor PerformsActivities, q Question[T]) (T, error) {
	return q.AnsweredBy(ctx, actor)
}
