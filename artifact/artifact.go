// Package artifact collects immutable records emitted during activity
// execution, in creation order, scoped to a single actor.
package artifact

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type classifies an artifact for filtering and reporting.
type Type string

const (
	TypeScreenshot Type = "screenshot"
	TypeLog        Type = "log"
	TypeJSON       Type = "json"
	TypeText       Type = "text"
	// TypeDiagnostic marks artifacts recorded in place of a payload that
	// could not be produced.
	TypeDiagnostic Type = "diagnostic"
)

// Artifact is an immutable named payload tagged with a type and associated
// with the actor and activity that produced it.
type Artifact struct {
	ID         string
	Name       string
	Type       Type
	Body       []byte
	ActorName  string
	ActivityID string
	RecordedAt time.Time
}

// CollectionError reports a failure while producing an artifact's payload.
// It is recorded as a diagnostic artifact, never propagated to the activity
// that requested the collection.
type CollectionError struct {
	Name  string
	Cause error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("producing artifact %q: %v", e.Name, e.Cause)
}

func (e *CollectionError) Unwrap() error { return e.Cause }

// Collector is an append-only artifact log for one actor.
// Thread-safe: abilities may collect from their own goroutines.
type Collector struct {
	actor string
	mu    sync.Mutex
	items []Artifact
}

// NewCollector creates an empty collector scoped to the named actor.
func NewCollector(actor string) *Collector {
	return &Collector{actor: actor}
}

// Actor returns the name of the actor this collector belongs to.
func (c *Collector) Actor() string {
	return c.actor
}

// Collect appends an artifact, stamping ID, actor and timestamp when unset.
// Collect never fails; appended artifacts are never mutated or rolled back.
func (c *Collector) Collect(a Artifact, activityID string) Artifact {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.ActorName == "" {
		a.ActorName = c.actor
	}
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now()
	}
	a.ActivityID = activityID

	c.mu.Lock()
	c.items = append(c.items, a)
	c.mu.Unlock()
	return a
}

// CollectFrom records the artifact produced by producer. If the producer
// fails, a diagnostic artifact carrying the failure is recorded instead and
// the failure is returned for logging only.
func (c *Collector) CollectFrom(name string, typ Type, activityID string, producer func() ([]byte, error)) (Artifact, error) {
	body, err := producer()
	if err != nil {
		cerr := &CollectionError{Name: name, Cause: err}
		diag := c.Collect(Artifact{
			Name: name,
			Type: TypeDiagnostic,
			Body: []byte(cerr.Error()),
		}, activityID)
		return diag, cerr
	}
	return c.Collect(Artifact{Name: name, Type: typ, Body: body}, activityID), nil
}

// Artifacts returns a copy of all collected artifacts in creation order.
func (c *Collector) Artifacts() []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Artifact, len(c.items))
	copy(result, c.items)
	return result
}

// ByType returns collected artifacts of the given type, in creation order.
func (c *Collector) ByType(t Type) []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []Artifact
	for _, a := range c.items {
		if a.Type == t {
			result = append(result, a)
		}
	}
	return result
}

// ByActivity returns artifacts produced by the given activity, in creation order.
func (c *Collector) ByActivity(activityID string) []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []Artifact
	for _, a := range c.items {
		if a.ActivityID == activityID {
			result = append(result, a)
		}
	}
	return result
}

// Len returns the number of collected artifacts.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
