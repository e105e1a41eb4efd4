package client

import (
	"errors"
	"fmt"
)

// APIError is a response that arrived intact but did not succeed: either a
// non-2xx status or a non-zero business code in the envelope.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("HTTP %d: code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// DecodeError is returned when a response body is not valid JSON or does
// not match the expected shape. The status of the response is kept so
// that, for example, a bodiless 401 is still recognizable.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsStatus returns true if err (or any wrapped error) is an APIError or
// DecodeError with the given HTTP status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr.StatusCode == code
	}
	return false
}

// IsCode returns true if err (or any wrapped error) is an APIError carrying
// the given business code.
func IsCode(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
