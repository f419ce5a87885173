package rest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"screenplay"
	"screenplay/notepad"
)

// placeholderPattern matches ${note} and ${env:NAME} placeholders.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substitute replaces ${note} placeholders with the actor's notes and
// ${env:NAME} placeholders with environment variables. Missing references
// are joined into a single error. Text without placeholders is returned
// unchanged.
func substitute(text string, actor screenplay.PerformsActivities) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var errs []error
	result := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]

		if strings.HasPrefix(name, "env:") {
			envName := name[4:]
			if val, ok := os.LookupEnv(envName); ok {
				return val
			}
			errs = append(errs, fmt.Errorf("env var %q not set", envName))
			return match
		}

		pad, err := notepad.For(actor)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolving %q: %w", name, err))
			return match
		}
		if val, ok := pad.Read(name); ok {
			return fmt.Sprintf("%v", val)
		}
		errs = append(errs, fmt.Errorf("no note recorded under %q", name))
		return match
	})

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return result, nil
}

// substituteMap applies substitution to every value of a header map.
func substituteMap(m map[string]string, actor screenplay.PerformsActivities) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]string, len(m))
	var errs []error
	for k, v := range m {
		substituted, err := substitute(v, actor)
		if err != nil {
			errs = append(errs, fmt.Errorf("header %q: %w", k, err))
			continue
		}
		result[k] = substituted
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}
