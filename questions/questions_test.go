package questions

import (
	"context"
	"strconv"
	"testing"

	"screenplay"
)

func TestValueOf(t *testing.T) {
	q := ValueOf("the answer", 42)

	got, err := q.AnsweredBy(context.Background(), screenplay.NewActor("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("answer = %d, want 42", got)
	}
}

func TestMapped(t *testing.T) {
	base := ValueOf("the raw value", "17")
	q := Mapped(base, "the parsed value", strconv.Atoi)

	got, err := q.AnsweredBy(context.Background(), screenplay.NewActor("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 17 {
		t.Errorf("answer = %d, want 17", got)
	}
}

func TestMapped_IsLazy(t *testing.T) {
	evaluated := false
	base := screenplay.NewQuestion("the source", func(ctx context.Context, actor screenplay.PerformsActivities) (int, error) {
		evaluated = true
		return 1, nil
	})
	Mapped(base, "doubled", func(n int) (int, error) { return n * 2, nil })

	if evaluated {
		t.Error("building a mapped question must not evaluate its source")
	}
}

func TestJSONPath(t *testing.T) {
	body := []byte(`{"user":{"id":7,"name":"Alice"},"items":[{"id":"a"},{"id":"b"}]}`)
	doc := ValueOf("the response body", body)

	tests := []struct {
		path string
		want any
	}{
		{"$.user.name", "Alice"},
		{"$.user.id", float64(7)},
		{"$.items[0].id", "a"},
		{"$.items[1].id", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			q := JSONPath(doc, tt.path)
			got, err := q.AnsweredBy(context.Background(), screenplay.NewActor("Alice"))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("answer = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestJSONPath_MissingPath(t *testing.T) {
	doc := ValueOf("the response body", []byte(`{"a":1}`))
	q := JSONPath(doc, "$.b.c")

	if _, err := q.AnsweredBy(context.Background(), screenplay.NewActor("Alice")); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestJSONPath_InvalidJSON(t *testing.T) {
	doc := ValueOf("the response body", []byte(`not json`))
	q := JSONPath(doc, "$.a")

	if _, err := q.AnsweredBy(context.Background(), screenplay.NewActor("Alice")); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestConvertJSONPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$.foo.bar", "foo.bar"},
		{"$.items[0].id", "items.0.id"},
		{"$.data[*].name", "data.#.name"},
		{"plain.path", "plain.path"},
		{"$", ""},
	}

	for _, tt := range tests {
		if got := convertJSONPath(tt.in); got != tt.want {
			t.Errorf("convertJSONPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
