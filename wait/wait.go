// Package wait provides synchronisation interactions: an actor polls a
// question until its answer meets an expectation, or the context ends.
package wait

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"screenplay"
)

// DefaultInterval is the polling interval used by Until.
const DefaultInterval = 500 * time.Millisecond

// Until polls q every DefaultInterval until matches returns true for its
// answer. The wait is bounded only by the context; wrap it with
// context.WithTimeout to cap it.
func Until[T any](q screenplay.Question[T], condition string, matches func(T) bool) screenplay.Activity {
	return untilEvery(screenplay.CallerLocation(1), DefaultInterval, q, condition, matches)
}

// UntilEvery is Until with an explicit polling interval.
func UntilEvery[T any](interval time.Duration, q screenplay.Question[T], condition string, matches func(T) bool) screenplay.Activity {
	return untilEvery(screenplay.CallerLocation(1), interval, q, condition, matches)
}

func untilEvery[T any](loc screenplay.Location, interval time.Duration, q screenplay.Question[T], condition string, matches func(T) bool) screenplay.Activity {
	description := fmt.Sprintf("#actor waits until %s is %s", q.Description(), condition)
	return screenplay.WhereAt(loc, description,
		func(ctx context.Context, actor screenplay.PerformsActivities) error {
			limiter := rate.NewLimiter(rate.Every(interval), 1)
			var lastErr error
			attempts := 0
			for {
				if err := limiter.Wait(ctx); err != nil {
					if lastErr != nil {
						return fmt.Errorf("gave up waiting after %d attempts, last failure: %w", attempts, lastErr)
					}
					return fmt.Errorf("gave up waiting after %d attempts: %w", attempts, err)
				}
				attempts++
				answer, err := q.AnsweredBy(ctx, actor)
				if err != nil {
					lastErr = err
					continue
				}
				if matches(answer) {
					return nil
				}
				lastErr = fmt.Errorf("answer %v did not meet the expectation", answer)
			}
		})
}

// ToEqual matches answers equal to want.
func ToEqual[T comparable](want T) func(T) bool {
	return func(got T) bool { return got == want }
}
