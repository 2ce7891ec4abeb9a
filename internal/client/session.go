package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/internal/http"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// SessionOption configures an AnonymousSession.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	baseURL  string
	logger   litnet.Logger
	httpOpts []http.Option
}

// WithBaseURL sets the API root used when the session builds its own
// transport.
func WithBaseURL(baseURL string) SessionOption {
	return func(o *sessionOptions) {
		o.baseURL = baseURL
	}
}

// WithSessionLogger sets the logger for session events.
func WithSessionLogger(logger litnet.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithTransportOptions passes options to the transport the session builds.
func WithTransportOptions(opts ...http.Option) SessionOption {
	return func(o *sessionOptions) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// AnonymousSession is a device-bound session that authorizes through
// anonymous registration. It implements litnet.Session.
type AnonymousSession struct {
	transport litnet.Transport
	deviceID  string
	logger    litnet.Logger

	mutex sync.RWMutex
	state litnet.AuthState
	token string
}

// NewAnonymousSession creates an unauthorized session for deviceID. A nil
// transport makes the session create its own; a supplied one stays owned by
// the caller.
func NewAnonymousSession(deviceID string, transport litnet.Transport, opts ...SessionOption) (*AnonymousSession, error) {
	if deviceID == "" {
		return nil, litnet.ErrDeviceIDRequired
	}

	options := &sessionOptions{baseURL: constants.DefaultBaseURL}
	for _, opt := range opts {
		opt(options)
	}

	if transport == nil {
		if options.baseURL == "" {
			return nil, litnet.ErrBaseURLRequired
		}

		transport = http.NewClient(options.baseURL, options.httpOpts...)
	}

	return &AnonymousSession{
		transport: transport,
		deviceID:  deviceID,
		logger:    options.logger,
		state:     litnet.Unauthorized,
	}, nil
}

// DeviceID implements litnet.Session.DeviceID.
func (s *AnonymousSession) DeviceID() string {
	return s.deviceID
}

// State implements litnet.Session.State.
func (s *AnonymousSession) State() litnet.AuthState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.state
}

// Token returns the stored token, or "" while unauthorized.
func (s *AnonymousSession) Token() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Params implements litnet.Session.Params.
func (s *AnonymousSession) Params() litnet.Params {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	params := litnet.Params{litnet.ParamDeviceID: s.deviceID}
	if s.state == litnet.Authorized {
		params[litnet.ParamUserToken] = s.token
	}

	return params
}

// Request implements litnet.Session.Request.
func (s *AnonymousSession) Request(ctx context.Context, endpoint string, params litnet.Params) (litnet.Record, error) {
	query := s.Params().Merge(params).Values()

	resp, err := s.transport.Get(ctx, endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}

	record, err := resp.Decode()
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}

	return record, nil
}

// Register implements litnet.Session.Register. The empty user_token is sent
// explicitly; the registration endpoint expects the key to be present.
func (s *AnonymousSession) Register(ctx context.Context) (litnet.Record, error) {
	return s.Request(ctx, constants.RegistrationEndpoint, litnet.Params{litnet.ParamUserToken: ""})
}

// Authorize implements litnet.Session.Authorize.
func (s *AnonymousSession) Authorize(ctx context.Context) (string, error) {
	record, err := s.Register(ctx)
	if err != nil {
		return "", fmt.Errorf("registering device: %w", err)
	}

	token, ok := record[constants.TokenField].(string)
	if !ok {
		s.warn("Registration returned no token", map[string]interface{}{"device_id": s.deviceID})

		return "", &litnet.InvalidResponseError{Field: constants.TokenField, Response: record}
	}

	s.mutex.Lock()
	s.token = token
	s.state = litnet.Authorized
	s.mutex.Unlock()

	s.debug("Session authorized", map[string]interface{}{
		"device_id": s.deviceID,
		"token":     http.MaskSecret(token),
	})

	return token, nil
}

func (s *AnonymousSession) warn(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, fields)
	}
}

func (s *AnonymousSession) debug(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, fields)
	}
}
