package screenplay

import (
	"context"
	"testing"
)

func TestQuestion_NotEvaluatedAtConstruction(t *testing.T) {
	evaluated := 0
	q := NewQuestion("the count", func(ctx context.Context, actor PerformsActivities) (int, error) {
		evaluated++
		return 42, nil
	})

	if evaluated != 0 {
		t.Fatal("question must not be evaluated at construction time")
	}

	got, err := q.AnsweredBy(context.Background(), NewActor("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 || evaluated != 1 {
		t.Errorf("answer = %d (evaluated %d times)", got, evaluated)
	}
}

func TestQuestion_IdempotentWithUnchangedState(t *testing.T) {
	c := &counter{count: 7}
	alice := NewActor("Alice").WhoCan(c)

	q := NewQuestion("the counter value", func(ctx context.Context, actor PerformsActivities) (int, error) {
		ability, err := AbilityAs[*counter](actor, canCount)
		if err != nil {
			return 0, err
		}
		return ability.count, nil
	})

	first, err := q.AnsweredBy(context.Background(), alice)
	if err != nil {
		t.Fatal(err)
	}
	second, err := q.AnsweredBy(context.Background(), alice)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("answers differ without intervening mutation: %d vs %d", first, second)
	}
}

func TestQuestion_CompositeResolvesLeftToRight(t *testing.T) {
	var order []string
	part := func(name string, value int) Question[int] {
		return NewQuestion(name, func(ctx context.Context, actor PerformsActivities) (int, error) {
			order = append(order, name)
			return value, nil
		})
	}
	left, right := part("left", 1), part("right", 2)

	sum := NewQuestion("the sum", func(ctx context.Context, actor PerformsActivities) (int, error) {
		l, err := left.AnsweredBy(ctx, actor)
		if err != nil {
			return 0, err
		}
		r, err := right.AnsweredBy(ctx, actor)
		if err != nil {
			return 0, err
		}
		return l + r, nil
	})

	got, err := Ask(context.Background(), NewActor("Alice"), sum)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("sum = %d, want 3", got)
	}
	if len(order) != 2 || order[0] != "left" || order[1] != "right" {
		t.Errorf("resolution order = %v, want [left right]", order)
	}
}
