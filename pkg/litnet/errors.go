package litnet

import (
	"errors"
	"fmt"
	"net/http"
)

// maxBodyInError caps how much of a response body is echoed in error strings.
const maxBodyInError = 512

// Static errors for err113 compliance.
var (
	ErrDeviceIDRequired = errors.New("device id is required")
	ErrBaseURLRequired  = errors.New("base URL is required")
	ErrConfigRequired   = errors.New("config is required")
	ErrSessionRequired  = errors.New("session is required")
	ErrInvalidToken     = errors.New("invalid token")
	ErrNotAnObject      = errors.New("response body is not a JSON object")
)

// HTTPError is returned for any non-2xx response. The body is kept raw and is
// never decoded.
type HTTPError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	if len(e.Body) == 0 {
		return fmt.Sprintf("GET %s: %s", e.Endpoint, status)
	}

	return fmt.Sprintf("GET %s: %s: %s", e.Endpoint, status, truncate(e.Body))
}

// DecodeError is returned when a response body is not a JSON object.
type DecodeError struct {
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response body: %v", e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidResponseError is returned when a response decodes but breaks the
// expected contract, e.g. a registration response without a token.
type InvalidResponseError struct {
	Field    string
	Response Record
}

// Error implements the error interface.
func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%v: field %q missing or not a string. Response: %v", ErrInvalidToken, e.Field, e.Response)
}

// Unwrap allows errors.Is(err, ErrInvalidToken).
func (e *InvalidResponseError) Unwrap() error {
	return ErrInvalidToken
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, code int) bool {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}

	return false
}

func truncate(body []byte) string {
	if len(body) <= maxBodyInError {
		return string(body)
	}

	return string(body[:maxBodyInError]) + "..."
}
