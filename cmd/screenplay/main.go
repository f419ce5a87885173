package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"screenplay"
	"screenplay/internal/config"
	"screenplay/notepad"
	"screenplay/report"
	"screenplay/rest"
	"screenplay/stage"
)

const (
	ExitSuccess        = 0
	ExitScenarioFailed = 1
	ExitError          = 2
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to YAML scenario file (required)")
	output := flag.String("output", "text", "output format: text, json")
	quiet := flag.Bool("quiet", false, "suppress per-activity output")
	verbose := flag.Bool("verbose", false, "enable debug output (activity start events)")
	timeout := flag.Duration("timeout", 0, "overall run timeout (overrides scenario)")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "error: --scenario is required")
		flag.Usage()
		os.Exit(ExitError)
	}

	if *output != "text" && *output != "json" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		os.Exit(ExitError)
	}

	scenario, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	logger := zerolog.Nop()
	if !*quiet {
		level := zerolog.InfoLevel
		if *verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	}

	hub := report.NewHub()
	recorder := report.NewRecorder()
	stopRecorder := recorder.Attend(hub)
	crew := report.AttendWith(hub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runTimeout := scenario.Timeout
	if *timeout > 0 {
		runTimeout = *timeout
	}
	if runTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if !*quiet {
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		}
		cancel()
	}()

	cast := stage.CastFunc(func(actor *screenplay.Actor) *screenplay.Actor {
		return actor.WhoCan(
			rest.CallAnAPI(scenario.BaseURL),
			notepad.TakeNotes(),
		)
	})
	theStage := stage.NewStage(cast, stage.WithHub(hub), stage.WithLogger(logger))
	actor := theStage.ActorCalled(scenario.ActorName())

	if err := seedNotepad(actor, scenario, filepath.Dir(*scenarioPath)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	start := time.Now()
	runErr := actor.AttemptsTo(ctx, buildActivities(scenario)...)
	duration := time.Since(start)

	if err := theStage.DrawTheCurtain(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("cleanup failed")
	}
	crew.Dismiss()
	stopRecorder()
	hub.Close()

	summary := report.Summarize(recorder.Events(), duration)
	if *output == "json" {
		report.FormatJSON(os.Stdout, summary)
	} else {
		report.FormatText(os.Stdout, summary)
	}

	if runErr != nil || !summary.Passed() {
		os.Exit(ExitScenarioFailed)
	}
	os.Exit(ExitSuccess)
}

// buildActivities turns each configured step into a named task wrapping the
// request, the status assertion, and the note extractions.
func buildActivities(scenario *config.Scenario) []screenplay.Activity {
	activities := make([]screenplay.Activity, 0, len(scenario.Steps))
	for _, step := range scenario.Steps {
		opts := make([]rest.Option, 0, len(step.Headers)+1)
		if step.Body != "" {
			opts = append(opts, rest.WithBody(step.Body))
		}
		for name, value := range step.Headers {
			opts = append(opts, rest.WithHeader(name, value))
		}

		children := []screenplay.Activity{rest.Send(step.Method, step.Path, opts...)}
		if step.Expect > 0 {
			children = append(children, rest.ExpectStatus(step.Expect))
		}
		for _, key := range sortedKeys(step.Extract) {
			children = append(children, rest.ExtractNote(key, step.Extract[key]))
		}

		description := fmt.Sprintf("#actor attempts to %s", step.Name)
		activities = append(activities, screenplay.TaskWhere(description, children...))
	}
	return activities
}

// seedNotepad loads each configured data file and writes its first row into
// the actor's notepad under "name.field" keys.
func seedNotepad(actor *screenplay.Actor, scenario *config.Scenario, baseDir string) error {
	if len(scenario.Data) == 0 {
		return nil
	}
	pad, err := notepad.For(actor)
	if err != nil {
		return err
	}
	for _, d := range scenario.Data {
		rows, err := notepad.Rows(d.File, baseDir)
		if err != nil {
			return err
		}
		name := d.Name
		if name == "" {
			name = rows.Name()
		}
		pad.SeedFrom(name, rows.Next())
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
