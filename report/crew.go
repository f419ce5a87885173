package report

import (
	"github.com/rs/zerolog"
)

// LogCrew subscribes to a hub and writes every event to a structured logger.
type LogCrew struct {
	stop func()
}

// AttendWith starts a crew member logging hub events until Dismiss is called
// or the hub closes.
func AttendWith(h *Hub, logger zerolog.Logger) *LogCrew {
	ch, unsubscribe := h.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range ch {
			logEvent(logger, event)
		}
	}()
	return &LogCrew{stop: func() {
		unsubscribe()
		<-done
	}}
}

// Dismiss stops logging and waits for in-flight events to drain.
func (c *LogCrew) Dismiss() {
	if c == nil || c.stop == nil {
		return
	}
	c.stop()
	c.stop = nil
}

func logEvent(logger zerolog.Logger, event Event) {
	var entry *zerolog.Event
	switch {
	case event.Type == EventActivityFinished && event.Outcome == OutcomeFailure:
		entry = logger.Error()
	case event.Type == EventActivityStarted:
		entry = logger.Debug()
	default:
		entry = logger.Info()
	}

	entry = entry.
		Str("event", string(event.Type)).
		Str("actor", event.Actor)
	if event.ActivityID != "" {
		entry = entry.Str("activity", event.ActivityID)
	}
	if event.Location != "" {
		entry = entry.Str("location", event.Location)
	}
	if event.Outcome != "" {
		entry = entry.Str("outcome", string(event.Outcome))
	}
	if event.Error != "" {
		entry = entry.Str("error", event.Error)
	}
	if event.Artifact != "" {
		entry = entry.Str("artifact", event.Artifact)
	}
	entry.Msg(event.Description)
}
