package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the Tenderly API. The service-provided
// slug and message are carried through without interpretation.
type APIError struct {
	Status  int
	Slug    string
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Slug != "" {
			return fmt.Sprintf("api error (status %d, %s): %s", e.Status, e.Slug, e.Message)
		}
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// DecodeError is a 2xx response whose body did not match the expected shape.
// Kept distinct from APIError so callers can tell "server said no" from
// "server said something we didn't understand".
type DecodeError struct {
	Err  error
	Body []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errorEnvelope matches the API's error body: {"error": {"slug": ..., "message": ...}}
type errorEnvelope struct {
	Error struct {
		Slug    string `json:"slug"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Slug = envelope.Error.Slug
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}
