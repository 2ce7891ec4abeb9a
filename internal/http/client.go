// Package http implements the HTTP transport used to talk to the Litnet API.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "litnet-dataset"

// Logger is the logging contract of the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client is a GET-only transport bound to a base URL. It implements
// litnet.Transport.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	userAgent  string
	observer   litnet.RequestObserver
	timeout    time.Duration
	sharedHTTP bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient uses a caller-owned http.Client for all requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
			c.sharedHTTP = true
		}
	}
}

// WithTimeout sets the timeout of the http.Client the transport creates. A
// client passed via WithHTTPClient is left as configured by its owner.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithObserver reports every round trip to observer.
func WithObserver(observer litnet.RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient creates a transport for baseURL. Requests are sent exactly once:
// the retrying machinery of retryablehttp is switched off and failed
// responses are handed back untouched.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	client := &Client{
		baseURL:    EnsureTrailingSlash(baseURL),
		httpClient: retryClient,
		userAgent:  DefaultUserAgent,
		timeout:    constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	if !client.sharedHTTP {
		client.httpClient.HTTPClient = &http.Client{Timeout: client.timeout}
	}

	return client
}

// BaseURL returns the base URL endpoints are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends a GET for endpoint with query and returns the response when the
// status is 2xx. Any other status yields a *litnet.HTTPError.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*litnet.Response, error) {
	fullURL, err := c.resolve(endpoint, query)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":   http.MethodGet,
			"endpoint": endpoint,
			"query":    MaskQuery(query).Encode(),
		})
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, resp.StatusCode, time.Since(start))

		return nil, fmt.Errorf("reading response body: %w", err)
	}

	elapsed := time.Since(start)
	c.observe(endpoint, resp.StatusCode, elapsed)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"endpoint":    endpoint,
			"status_code": resp.StatusCode,
			"duration":    elapsed.String(),
			"bytes":       len(body),
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &litnet.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Endpoint:   endpoint,
			Body:       body,
		}
	}

	return &litnet.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) resolve(endpoint string, query url.Values) (string, error) {
	parsed, err := url.Parse(c.baseURL + strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing endpoint %q: %w", endpoint, err)
	}

	if len(query) > 0 {
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}

func (c *Client) observe(endpoint string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, status, elapsed)
	}
}

// EnsureTrailingSlash appends "/" to baseURL unless already present, so that
// endpoints concatenate as path segments.
func EnsureTrailingSlash(baseURL string) string {
	if baseURL == "" || strings.HasSuffix(baseURL, "/") {
		return baseURL
	}

	return baseURL + "/"
}

// MaskQuery returns a copy of query with the user token masked.
func MaskQuery(query url.Values) url.Values {
	masked := make(url.Values, len(query))
	for key, values := range query {
		masked[key] = append([]string(nil), values...)
	}

	if token := masked.Get(litnet.ParamUserToken); token != "" {
		masked.Set(litnet.ParamUserToken, MaskSecret(token))
	}

	return masked
}

// MaskSecret keeps a short prefix of secret and hides the rest.
func MaskSecret(secret string) string {
	if len(secret) <= constants.MaskedPrefixLength {
		return constants.MaskedSecret
	}

	return secret[:constants.MaskedPrefixLength] + constants.MaskedSecret
}

// noRetry never asks for another attempt; it only surfaces a cancelled context.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, nil
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		fields[key] = maskURLValue(keysAndValues[i+1])
	}

	return fields
}

// maskURLValue hides the user token inside URLs logged by retryablehttp.
func maskURLValue(value interface{}) interface{} {
	var parsed *url.URL

	switch typed := value.(type) {
	case *url.URL:
		if typed == nil {
			return value
		}

		copied := *typed
		parsed = &copied
	case string:
		candidate, err := url.Parse(typed)
		if err != nil || candidate.RawQuery == "" {
			return value
		}

		parsed = candidate
	default:
		return value
	}

	parsed.RawQuery = MaskQuery(parsed.Query()).Encode()

	return parsed.String()
}
