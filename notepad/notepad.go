// Package notepad implements the take-notes ability: actor-scoped state
// shared between the activities of a single actor, and seedable from data
// files for data-driven scenarios.
package notepad

import (
	"context"
	"fmt"
	"sync"

	"screenplay"
)

// Kind identifies the take-notes ability.
const Kind screenplay.AbilityKind = "take-notes"

// Notepad lets an actor share state between activities. Thread-safe, since
// abilities are responsible for their own concurrency safety.
type Notepad struct {
	mu    sync.RWMutex
	notes map[string]any
}

// TakeNotes creates an empty notepad ability.
func TakeNotes() *Notepad {
	return &Notepad{notes: make(map[string]any)}
}

func (n *Notepad) Kind() screenplay.AbilityKind { return Kind }

// Write records a note under key, overwriting any prior value.
func (n *Notepad) Write(key string, value any) {
	n.mu.Lock()
	n.notes[key] = value
	n.mu.Unlock()
}

// Read returns the note recorded under key.
func (n *Notepad) Read(key string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	value, ok := n.notes[key]
	return value, ok
}

// Len returns the number of recorded notes.
func (n *Notepad) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.notes)
}

// Clear removes all notes.
func (n *Notepad) Clear() {
	n.mu.Lock()
	n.notes = make(map[string]any)
	n.mu.Unlock()
}

// SeedFrom writes every field of row into the notepad under "prefix.field".
func (n *Notepad) SeedFrom(prefix string, row map[string]any) {
	for field, value := range row {
		n.Write(fmt.Sprintf("%s.%s", prefix, field), value)
	}
}

// For fetches the notepad of the given actor.
func For(actor screenplay.PerformsActivities) (*Notepad, error) {
	return screenplay.AbilityAs[*Notepad](actor, Kind)
}

// NoteOf is a question answering the note recorded under key.
func NoteOf(key string) screenplay.Question[any] {
	return screenplay.NewQuestion(fmt.Sprintf("#actor's note %q", key), func(ctx context.Context, actor screenplay.PerformsActivities) (any, error) {
		pad, err := For(actor)
		if err != nil {
			return nil, err
		}
		value, ok := pad.Read(key)
		if !ok {
			return nil, fmt.Errorf("no note recorded under %q", key)
		}
		return value, nil
	})
}

// WriteNote is an interaction recording a note.
func WriteNote(key string, value any) screenplay.Activity {
	return screenplay.WhereAt(screenplay.CallerLocation(1),
		fmt.Sprintf("#actor takes note of %q", key),
		func(ctx context.Context, actor screenplay.PerformsActivities) error {
			pad, err := For(actor)
			if err != nil {
				return err
			}
			pad.Write(key, value)
			return nil
		})
}
