// Package config handles YAML scenario parsing for the command-line runner.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is the root configuration structure: one actor performing a
// sequence of API steps.
type Scenario struct {
	Name    string        `yaml:"name"`
	Actor   string        `yaml:"actor,omitempty"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Data    []DataConfig  `yaml:"data,omitempty"`
	Steps   []StepConfig  `yaml:"steps"`
}

// DataConfig names a data file whose first row seeds the actor's notepad.
type DataConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// StepConfig defines a single API step.
type StepConfig struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty"`
	Expect  int               `yaml:"expect,omitempty"`
	Extract map[string]string `yaml:"extract,omitempty"` // note name -> JSONPath
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario for the mistakes a runner cannot recover
// from.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.BaseURL == "" {
		return fmt.Errorf("scenario baseUrl is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario needs at least one step")
	}
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("step %d: name is required", i+1)
		}
		if step.Method == "" {
			return fmt.Errorf("step %q: method is required", step.Name)
		}
		if step.Path == "" {
			return fmt.Errorf("step %q: path is required", step.Name)
		}
	}
	return nil
}

// ActorName returns the configured actor name, defaulting to "Tester".
func (s *Scenario) ActorName() string {
	if s.Actor == "" {
		return "Tester"
	}
	return s.Actor
}
