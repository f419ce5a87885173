// Package report defines the domain events emitted while actors perform
// activities, and fans them out to reporting subscribers.
package report

import (
	"strings"
	"sync"
	"time"
)

// ActorToken is the placeholder in activity descriptions that stands for
// the performing actor's name. It is resolved at reporting time; activity
// constructors store descriptions verbatim.
const ActorToken = "#actor"

// ResolveDescription replaces the actor-name token in a description template.
func ResolveDescription(template, actorName string) string {
	if !strings.Contains(template, ActorToken) {
		return template
	}
	return strings.ReplaceAll(template, ActorToken, actorName)
}

// EventType identifies the kind of reporting event.
type EventType string

const (
	EventActivityStarted   EventType = "activity.started"
	EventActivityFinished  EventType = "activity.finished"
	EventArtifactCollected EventType = "artifact.collected"
	EventActorDiscarded    EventType = "actor.discarded"
)

// Outcome is the result of a finished activity.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event describes one reporting step: an activity starting or finishing, an
// artifact being collected, or an actor being discarded. Descriptions carry
// the actor name already resolved.
type Event struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Actor       string    `json:"actor"`
	ActivityID  string    `json:"activityId,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Outcome     Outcome   `json:"outcome,omitempty"`
	Error       string    `json:"error,omitempty"`
	Artifact    string    `json:"artifact,omitempty"`
}

// Hub fans reporting events out to any number of subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Publish notifies all subscribers. Non-blocking; drops if a subscriber's
// buffer is full so that a slow reporter can never stall an actor.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel receiving future events and a cleanup func.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, 256)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close unsubscribes all listeners and prevents future publications.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}

// Recorder stores published events in order for later inspection.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record implements direct event capture without a hub.
func (r *Recorder) Record(event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Attend subscribes the recorder to a hub until the returned stop func is
// called or the hub closes.
func (r *Recorder) Attend(h *Hub) (stop func()) {
	ch, unsubscribe := h.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range ch {
			r.Record(event)
		}
	}()
	return func() {
		unsubscribe()
		<-done
	}
}

// Events returns a copy of recorded events in publication order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Event, len(r.events))
	copy(result, r.events)
	return result
}
