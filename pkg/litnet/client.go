package litnet

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Transport performs GET requests against the API. Get resolves endpoint
// against the transport's base URL, returns a *Response for 2xx statuses and
// an *HTTPError otherwise.
type Transport interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*Response, error)
}

// Session is an anonymous, device-bound API session.
type Session interface {
	// DeviceID returns the device identifier the session registers with.
	DeviceID() string
	// State reports whether the session holds a token.
	State() AuthState
	// Params returns a copy of the default parameters sent with each request.
	Params() Params
	// Request issues a GET with the defaults merged with params; params win.
	Request(ctx context.Context, endpoint string, params Params) (Record, error)
	// Register performs anonymous registration and returns the raw response.
	Register(ctx context.Context) (Record, error)
	// Authorize registers and stores the returned token for later requests.
	Authorize(ctx context.Context) (string, error)
}

// Catalog provides authorized reads of catalog records.
type Catalog interface {
	Book(ctx context.Context, bookID int) (Record, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Catalog.
//
// # Transport precedence
//
//  1. Transport: used as-is. BaseURL, HTTPClient, Timeout and UserAgent are
//     ignored; the caller owns it.
//  2. HTTPClient: wrapped by the default transport. The caller keeps
//     ownership, it is never closed here.
//  3. Neither: the default transport creates its own http.Client with
//     Timeout.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.litnet.com/v1/". Empty means
	// the public default. A trailing slash is added when missing.
	BaseURL string
	// DeviceID identifies the anonymous device. Required.
	DeviceID string

	// Transport overrides the default HTTP transport.
	Transport Transport
	// HTTPClient is a shared client for the default transport.
	HTTPClient *http.Client
	// Timeout applies to an http.Client created by the default transport.
	Timeout time.Duration
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger.
	Logger Logger
	// Observer is notified of every completed request, e.g. for metrics.
	Observer RequestObserver
}

// RequestObserver receives the outcome of each HTTP round trip. status is 0
// when no response was received.
type RequestObserver interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
}
