package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed operation so the caller can present it
// without inspecting messages
type ErrorKind string

const (
	KindInvalidConfiguration ErrorKind = "invalid_configuration"
	KindNetwork              ErrorKind = "network_error"
	KindTimeout              ErrorKind = "timeout_error"
	KindAuthentication       ErrorKind = "authentication_error"
	KindEndpointNotFound     ErrorKind = "endpoint_not_found"
	KindServer               ErrorKind = "server_error"
	KindRequest              ErrorKind = "request_error"
	KindRejected             ErrorKind = "rejected_error"
	KindMalformedResponse    ErrorKind = "malformed_response"
)

// APIError is the typed error returned by the connection tester and model
// lister. StatusCode is set only when a response was actually received.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the error kind of err, or "" if err is not an APIError
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func invalidConfigError(err error) *APIError {
	return &APIError{Kind: KindInvalidConfiguration, Message: err.Error(), Err: err}
}

// classifyTransportError maps a failed round trip (no response received) to
// either a timeout or a generic network error
func classifyTransportError(ctx context.Context, err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	return &APIError{Kind: KindNetwork, Message: "network request failed: " + err.Error(), Err: err}
}

// classifyStatusError maps a non-2xx response to an error kind. The status
// code is always preserved for caller diagnostics.
func classifyStatusError(statusCode int, body string) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Message: body}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		apiErr.Kind = KindAuthentication
		apiErr.Message = "authentication failed"
	case statusCode == http.StatusNotFound:
		apiErr.Kind = KindEndpointNotFound
		apiErr.Message = "models endpoint not found"
	case statusCode >= 500:
		apiErr.Kind = KindServer
		apiErr.Message = fmt.Sprintf("server returned status %d", statusCode)
	default:
		apiErr.Kind = KindRequest
		apiErr.Message = fmt.Sprintf("request rejected with status %d", statusCode)
	}
	return apiErr
}
