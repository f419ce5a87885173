package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"screenplay"
	"screenplay/artifact"
	"screenplay/notepad"
	"screenplay/questions"
)

const (
	// maxArtifactBodySize limits the response body recorded as an artifact.
	maxArtifactBodySize = 4096
	// maxResponseBodySize limits the response body buffered for extraction.
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
)

type request struct {
	body    string
	headers map[string]string
}

// Option configures a request built by Send.
type Option func(*request)

// WithBody sets the request body. Placeholders are substituted before send.
func WithBody(body string) Option {
	return func(r *request) { r.body = body }
}

// WithHeader adds a request header. Placeholders in the value are
// substituted before send.
func WithHeader(name, value string) Option {
	return func(r *request) {
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[name] = value
	}
}

// Send is an interaction issuing an HTTP request against the actor's API
// ability. The path is resolved against the ability's base URL, and ${note}
// and ${env:NAME} placeholders in the path, body and headers are substituted
// from the actor's notepad and the environment. The response is buffered,
// remembered on the ability, and recorded as an artifact.
func Send(method, path string, opts ...Option) screenplay.Activity {
	req := request{}
	for _, opt := range opts {
		opt(&req)
	}

	description := fmt.Sprintf("#actor sends %s %s", method, path)
	return screenplay.WhereAt(screenplay.CallerLocation(1), description,
		func(ctx context.Context, actor screenplay.PerformsActivities) error {
			api, err := For(actor)
			if err != nil {
				return err
			}

			url, err := substitute(api.baseURL+path, actor)
			if err != nil {
				return err
			}
			body, err := substitute(req.body, actor)
			if err != nil {
				return err
			}
			headers, err := substituteMap(req.headers, actor)
			if err != nil {
				return err
			}

			httpReq, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(body))
			if err != nil {
				return err
			}
			for k, v := range headers {
				httpReq.Header.Set(k, v)
			}

			start := time.Now()
			httpResp, err := api.client.Do(httpReq)
			if err != nil {
				return fmt.Errorf("%s %s: %w", method, url, err)
			}
			defer httpResp.Body.Close()

			respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBodySize))
			if err != nil {
				return fmt.Errorf("reading response of %s %s: %w", method, url, err)
			}
			_, _ = io.Copy(io.Discard, httpResp.Body) // drain errors are ignorable

			api.record(&Response{
				StatusCode: httpResp.StatusCode,
				Status:     httpResp.Status,
				Headers:    httpResp.Header.Clone(),
				Body:       respBody,
				Duration:   time.Since(start),
			})

			recorded := respBody
			if len(recorded) > maxArtifactBodySize {
				recorded = recorded[:maxArtifactBodySize]
			}
			actor.Collect(artifact.Artifact{
				Name: fmt.Sprintf("response %s %s", method, path),
				Type: artifactType(httpResp.Header.Get("Content-Type")),
				Body: recorded,
			})
			return nil
		})
}

func artifactType(contentType string) artifact.Type {
	if strings.Contains(contentType, "json") {
		return artifact.TypeJSON
	}
	return artifact.TypeText
}

// ExpectStatus is an interaction asserting the status code of the last
// response.
func ExpectStatus(code int) screenplay.Activity {
	return screenplay.WhereAt(screenplay.CallerLocation(1),
		fmt.Sprintf("#actor expects the last response status to be %d", code),
		func(ctx context.Context, actor screenplay.PerformsActivities) error {
			api, err := For(actor)
			if err != nil {
				return err
			}
			resp, ok := api.LastResponse()
			if !ok {
				return fmt.Errorf("no response to check: no request was sent yet")
			}
			if resp.StatusCode != code {
				return fmt.Errorf("status is %s, want %d", resp.Status, code)
			}
			return nil
		})
}

// ExtractNote is an interaction extracting a value from the last response
// body with a JSONPath expression and recording it as a note.
func ExtractNote(key, path string) screenplay.Activity {
	return screenplay.WhereAt(screenplay.CallerLocation(1),
		fmt.Sprintf("#actor extracts %s from the last response as note %q", path, key),
		func(ctx context.Context, actor screenplay.PerformsActivities) error {
			api, err := For(actor)
			if err != nil {
				return err
			}
			resp, ok := api.LastResponse()
			if !ok {
				return fmt.Errorf("no response to extract from: no request was sent yet")
			}
			value, err := questions.ExtractPath(resp.Body, path)
			if err != nil {
				return err
			}
			pad, err := notepad.For(actor)
			if err != nil {
				return err
			}
			pad.Write(key, value)
			return nil
		})
}
