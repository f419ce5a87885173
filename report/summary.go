package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Summary aggregates finished-activity events into per-run counts.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Event
	Duration  time.Duration
}

// Summarize builds a summary from recorded events. Only finished-activity
// events count; start and artifact events are ignored.
func Summarize(events []Event, duration time.Duration) *Summary {
	s := &Summary{Duration: duration}
	for _, e := range events {
		if e.Type != EventActivityFinished {
			continue
		}
		s.Total++
		if e.Outcome == OutcomeFailure {
			s.Failed++
			s.Failures = append(s.Failures, e)
		} else {
			s.Succeeded++
		}
	}
	return s
}

// Passed reports whether every finished activity succeeded.
func (s *Summary) Passed() bool {
	return s.Failed == 0
}

// FormatText writes the summary in human-readable form.
func FormatText(w io.Writer, s *Summary) {
	if s.Total == 0 {
		fmt.Fprintln(w, "No activities performed")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Screenplay - Run Summary")
	fmt.Fprintln(w, "========================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Duration:   %v\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Activities: %d\n", s.Total)
	fmt.Fprintf(w, "Succeeded:  %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed:     %d\n", s.Failed)

	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Failures:")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  ✗ %s\n", f.Description)
			if f.Location != "" {
				fmt.Fprintf(w, "    at %s\n", f.Location)
			}
			if f.Error != "" {
				fmt.Fprintf(w, "    %s\n", f.Error)
			}
		}
	}
}

// FormatJSON writes the summary in JSON form.
func FormatJSON(w io.Writer, s *Summary) {
	output := struct {
		Duration  string  `json:"duration"`
		Total     int     `json:"total"`
		Succeeded int     `json:"succeeded"`
		Failed    int     `json:"failed"`
		Passed    bool    `json:"passed"`
		Failures  []Event `json:"failures,omitempty"`
	}{
		Duration:  s.Duration.Round(time.Millisecond).String(),
		Total:     s.Total,
		Succeeded: s.Succeeded,
		Failed:    s.Failed,
		Passed:    s.Passed(),
		Failures:  s.Failures,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}
