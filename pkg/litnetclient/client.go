// Package litnetclient provides the main entry point for creating Litnet API clients
package litnetclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/boxwithpython/litnet-dataset/internal/client"
	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/internal/http"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// New creates an authorized catalog. The device is registered before New
// returns; if that fails no catalog is returned.
func New(ctx context.Context, config *litnet.Config) (litnet.Catalog, error) {
	session, err := NewSession(config)
	if err != nil {
		return nil, err
	}

	catalog, err := client.NewCatalogClient(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	return catalog, nil
}

// NewSession creates an unauthorized anonymous session from config.
func NewSession(config *litnet.Config) (litnet.Session, error) {
	if config == nil {
		return nil, litnet.ErrConfigRequired
	}

	if config.DeviceID == "" {
		return nil, litnet.ErrDeviceIDRequired
	}

	opts := []client.SessionOption{
		client.WithBaseURL(NormalizeBaseURL(config.BaseURL)),
		client.WithTransportOptions(transportOptions(config)...),
	}

	if config.Logger != nil {
		opts = append(opts, client.WithSessionLogger(config.Logger))
	}

	session, err := client.NewAnonymousSession(config.DeviceID, config.Transport, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// NewWithDevice creates an authorized catalog for deviceID against the public API.
func NewWithDevice(ctx context.Context, deviceID string) (litnet.Catalog, error) {
	return New(ctx, &litnet.Config{DeviceID: deviceID})
}

// NormalizeBaseURL fills in the public default, adds "https://" when no scheme
// is present and guarantees a trailing slash.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return http.EnsureTrailingSlash(baseURL)
}

// transportOptions builds HTTP transport options from config.
func transportOptions(config *litnet.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		opts = append(opts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.Timeout > 0 {
		opts = append(opts, http.WithTimeout(config.Timeout))
	}

	if config.Observer != nil {
		opts = append(opts, http.WithObserver(config.Observer))
	}

	return opts
}
