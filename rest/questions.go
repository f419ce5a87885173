package rest

import (
	"context"
	"fmt"

	"screenplay"
	"screenplay/questions"
)

func lastResponse(actor screenplay.PerformsActivities) (*Response, error) {
	api, err := For(actor)
	if err != nil {
		return nil, err
	}
	resp, ok := api.LastResponse()
	if !ok {
		return nil, fmt.Errorf("no response to inspect: no request was sent yet")
	}
	return resp, nil
}

// LastResponseStatus answers the status code of the last response.
func LastResponseStatus() screenplay.Question[int] {
	return screenplay.NewQuestion("the status of the last response",
		func(ctx context.Context, actor screenplay.PerformsActivities) (int, error) {
			resp, err := lastResponse(actor)
			if err != nil {
				return 0, err
			}
			return resp.StatusCode, nil
		})
}

// LastResponseBody answers the buffered body of the last response.
func LastResponseBody() screenplay.Question[[]byte] {
	return screenplay.NewQuestion("the body of the last response",
		func(ctx context.Context, actor screenplay.PerformsActivities) ([]byte, error) {
			resp, err := lastResponse(actor)
			if err != nil {
				return nil, err
			}
			return resp.Body, nil
		})
}

// LastResponseJSONPath answers a value extracted from the last response
// body with a JSONPath expression.
func LastResponseJSONPath(path string) screenplay.Question[any] {
	return questions.JSONPath(LastResponseBody(), path)
}

// LastResponseHeader answers a header of the last response.
func LastResponseHeader(name string) screenplay.Question[string] {
	return screenplay.NewQuestion(fmt.Sprintf("the %q header of the last response", name),
		func(ctx context.Context, actor screenplay.PerformsActivities) (string, error) {
			resp, err := lastResponse(actor)
			if err != nil {
				return "", err
			}
			return resp.Headers.Get(name), nil
		})
}
