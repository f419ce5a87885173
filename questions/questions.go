// Package questions provides building blocks for composing questions:
// fixed values, mapped answers, and JSONPath extraction from JSON answers.
package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"screenplay"
)

// ValueOf returns a question already answered by a fixed value. Useful for
// parameterising tasks that accept questions.
func ValueOf[T any](description string, value T) screenplay.Question[T] {
	return screenplay.NewQuestion(description, func(ctx context.Context, actor screenplay.PerformsActivities) (T, error) {
		return value, nil
	})
}

// Mapped derives a question by transforming another question's answer. The
// source question is answered first, then fn is applied; nothing is
// evaluated until the derived question itself is answered.
func Mapped[T, U any](q screenplay.Question[T], description string, fn func(T) (U, error)) screenplay.Question[U] {
	return screenplay.NewQuestion(description, func(ctx context.Context, actor screenplay.PerformsActivities) (U, error) {
		var zero U
		answer, err := q.AnsweredBy(ctx, actor)
		if err != nil {
			return zero, err
		}
		return fn(answer)
	})
}

// JSONPath extracts a value from a JSON document answered by another
// question, using JSONPath syntax ($.foo.bar, $.items[0].id, $.data[*].name).
func JSONPath(q screenplay.Question[[]byte], path string) screenplay.Question[any] {
	description := fmt.Sprintf("%s at %s", q.Description(), path)
	return screenplay.NewQuestion(description, func(ctx context.Context, actor screenplay.PerformsActivities) (any, error) {
		body, err := q.AnsweredBy(ctx, actor)
		if err != nil {
			return nil, err
		}
		return ExtractPath(body, path)
	})
}

// ExtractPath evaluates a JSONPath expression against a JSON document.
func ExtractPath(body []byte, path string) (any, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in answer")
	}
	value := gjson.GetBytes(body, convertJSONPath(path))
	if !value.Exists() {
		return nil, fmt.Errorf("path %q not found in answer", path)
	}
	return value.Value(), nil
}

// convertJSONPath converts JSONPath syntax to gjson path format.
// $.foo.bar -> foo.bar
// $.items[0].id -> items.0.id
// $.data[*].name -> data.#.name
func convertJSONPath(path string) string {
	if strings.HasPrefix(path, "$.") {
		path = path[2:]
	} else if strings.HasPrefix(path, "$") {
		path = path[1:]
	}

	var result strings.Builder
	i := 0
	for i < len(path) {
		if path[i] == '[' {
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				content := path[i+1 : j]
				if content == "*" {
					result.WriteString(".#")
				} else {
					result.WriteByte('.')
					result.WriteString(content)
				}
				i = j + 1
				continue
			}
		}
		result.WriteByte(path[i])
		i++
	}

	return result.String()
}
