// Package rest implements the call-an-api ability and the interactions and
// questions for driving HTTP APIs from a scenario.
package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"screenplay"
)

// Kind identifies the call-an-api ability.
const Kind screenplay.AbilityKind = "call-an-api"

const defaultTimeout = 30 * time.Second

// Response captures the outcome of the most recent request made through the
// API ability. The body is fully read and buffered.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// API lets an actor call an HTTP API rooted at a base URL. It remembers the
// last response so follow-up interactions and questions can inspect it.
type API struct {
	baseURL string
	client  *http.Client

	mu   sync.Mutex
	last *Response
}

// CallAnAPI creates the ability with a default client.
func CallAnAPI(baseURL string) *API {
	return CallAnAPIWith(baseURL, &http.Client{Timeout: defaultTimeout})
}

// CallAnAPIWith creates the ability with a caller-supplied client, for
// custom transports or test doubles.
func CallAnAPIWith(baseURL string, client *http.Client) *API {
	return &API{baseURL: baseURL, client: client}
}

func (a *API) Kind() screenplay.AbilityKind { return Kind }

// BaseURL returns the base URL requests are resolved against.
func (a *API) BaseURL() string { return a.baseURL }

// Discard releases idle connections held by the underlying client.
func (a *API) Discard(ctx context.Context) error {
	a.client.CloseIdleConnections()
	return nil
}

// LastResponse returns the most recent response, if any request was made.
func (a *API) LastResponse() (*Response, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return nil, false
	}
	return a.last, true
}

func (a *API) record(resp *Response) {
	a.mu.Lock()
	a.last = resp
	a.mu.Unlock()
}

// For fetches the API ability of the given actor.
func For(actor screenplay.PerformsActivities) (*API, error) {
	return screenplay.AbilityAs[*API](actor, Kind)
}
