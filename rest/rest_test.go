package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"screenplay"
	"screenplay/artifact"
	"screenplay/notepad"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-42","user":{"id":7}}`))
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"auth":   r.Header.Get("Authorization"),
			"body":   string(body),
		})
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSend_RecordsResponseAndArtifact(t *testing.T) {
	server := newEchoServer(t)
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL))

	if err := alice.AttemptsTo(context.Background(), Send(http.MethodGet, "/login")); err != nil {
		t.Fatal(err)
	}

	api, err := For(alice)
	if err != nil {
		t.Fatal(err)
	}
	resp, ok := api.LastResponse()
	if !ok {
		t.Fatal("expected a recorded response")
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "tok-42") {
		t.Errorf("body = %s", resp.Body)
	}

	arts := alice.Artifacts().ByType(artifact.TypeJSON)
	if len(arts) != 1 {
		t.Fatalf("artifacts = %d, want 1", len(arts))
	}
	if arts[0].Name != "response GET /login" {
		t.Errorf("artifact name = %q", arts[0].Name)
	}
}

func TestSend_SubstitutesNotesInPathBodyAndHeaders(t *testing.T) {
	server := newEchoServer(t)
	pad := notepad.TakeNotes()
	pad.Write("token", "tok-42")
	pad.Write("user.id", 7)
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL), pad)

	err := alice.AttemptsTo(context.Background(),
		Send(http.MethodPost, "/echo",
			WithBody(`{"id":${user.id}}`),
			WithHeader("Authorization", "Bearer ${token}")),
	)
	if err != nil {
		t.Fatal(err)
	}

	resp, _ := mustAPI(t, alice).LastResponse()
	var echoed struct {
		Auth string `json:"auth"`
		Body string `json:"body"`
	}
	if err := json.Unmarshal(resp.Body, &echoed); err != nil {
		t.Fatal(err)
	}
	if echoed.Auth != "Bearer tok-42" {
		t.Errorf("auth header = %q", echoed.Auth)
	}
	if echoed.Body != `{"id":7}` {
		t.Errorf("body = %q", echoed.Body)
	}
}

func TestSend_SubstitutesEnv(t *testing.T) {
	server := newEchoServer(t)
	t.Setenv("API_TOKEN", "env-tok")
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL))

	err := alice.AttemptsTo(context.Background(),
		Send(http.MethodPost, "/echo", WithHeader("Authorization", "${env:API_TOKEN}")))
	if err != nil {
		t.Fatal(err)
	}

	resp, _ := mustAPI(t, alice).LastResponse()
	if !strings.Contains(string(resp.Body), "env-tok") {
		t.Errorf("body = %s", resp.Body)
	}
}

func TestSend_MissingNoteFails(t *testing.T) {
	server := newEchoServer(t)
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL), notepad.TakeNotes())

	err := alice.AttemptsTo(context.Background(), Send(http.MethodGet, "/echo?id=${nope}"))
	if err == nil {
		t.Fatal("expected an error for an unresolved placeholder")
	}
	if !strings.Contains(err.Error(), `no note recorded under "nope"`) {
		t.Errorf("error = %v", err)
	}
}

func TestSend_RequiresAbility(t *testing.T) {
	alice := screenplay.NewActor("Alice")

	err := alice.AttemptsTo(context.Background(), Send(http.MethodGet, "/"))
	var notFound *screenplay.AbilityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want AbilityNotFoundError", err)
	}
}

func TestExpectStatus(t *testing.T) {
	server := newEchoServer(t)
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL))

	err := alice.AttemptsTo(context.Background(),
		Send(http.MethodGet, "/login"),
		ExpectStatus(http.StatusOK),
	)
	if err != nil {
		t.Fatal(err)
	}

	err = alice.AttemptsTo(context.Background(),
		Send(http.MethodGet, "/missing"),
		ExpectStatus(http.StatusOK),
	)
	if err == nil {
		t.Fatal("expected a status mismatch error")
	}
	if !strings.Contains(err.Error(), "want 200") {
		t.Errorf("error = %v", err)
	}
}

func TestExpectStatus_WithoutPriorRequest(t *testing.T) {
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI("http://unused"))

	if err := alice.AttemptsTo(context.Background(), ExpectStatus(http.StatusOK)); err == nil {
		t.Error("expected an error when no request was sent")
	}
}

func TestExtractNote(t *testing.T) {
	server := newEchoServer(t)
	pad := notepad.TakeNotes()
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL), pad)

	err := alice.AttemptsTo(context.Background(),
		Send(http.MethodGet, "/login"),
		ExtractNote("token", "$.token"),
		ExtractNote("user.id", "$.user.id"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := pad.Read("token"); got != "tok-42" {
		t.Errorf("token note = %v", got)
	}
	if got, _ := pad.Read("user.id"); got != float64(7) {
		t.Errorf("user.id note = %v", got)
	}
}

func TestLastResponseQuestions(t *testing.T) {
	server := newEchoServer(t)
	alice := screenplay.NewActor("Alice").WhoCan(CallAnAPI(server.URL))

	if err := alice.AttemptsTo(context.Background(), Send(http.MethodGet, "/login")); err != nil {
		t.Fatal(err)
	}

	status, err := screenplay.Ask(context.Background(), alice, LastResponseStatus())
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}

	token, err := screenplay.Ask(context.Background(), alice, LastResponseJSONPath("$.token"))
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok-42" {
		t.Errorf("token = %v", token)
	}

	contentType, err := screenplay.Ask(context.Background(), alice, LastResponseHeader("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestDiscard(t *testing.T) {
	api := CallAnAPI("http://unused")
	if err := api.Discard(context.Background()); err != nil {
		t.Fatal(err)
	}
	// safe to call again
	if err := api.Discard(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func mustAPI(t *testing.T, actor screenplay.PerformsActivities) *API {
	t.Helper()
	api, err := For(actor)
	if err != nil {
		t.Fatal(err)
	}
	return api
}
