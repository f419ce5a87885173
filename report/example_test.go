package report_test

import (
	"fmt"

	"screenplay/report"
)

func ExampleHub() {
	hub := report.NewHub()

	recorder := report.NewRecorder()
	stop := recorder.Attend(hub)

	hub.Publish(report.Event{
		Type:        report.EventActivityFinished,
		Actor:       "Alice",
		Description: "Alice logs in",
		Outcome:     report.OutcomeSuccess,
	})

	stop()
	hub.Close()

	for _, e := range recorder.Events() {
		fmt.Printf("%s: %s (%s)\n", e.Type, e.Description, e.Outcome)
	}
	// Output: activity.finished: Alice logs in (success)
}

func ExampleResolveDescription() {
	template := "#actor counts to three"
	fmt.Println(report.ResolveDescription(template, "Alice"))
	// Output: Alice counts to three
}
