package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

var errTransportClosed = errors.New("transport is closed")

// HTTPClientConfig represents configuration for the HTTP transport
type HTTPClientConfig struct {
	Provider       string
	BaseURL        string
	Timeout        time.Duration
	DefaultHeaders map[string]string
	// PostHeaders are added to POST requests only.
	PostHeaders map[string]string
	// Client overrides the underlying *http.Client (timeouts, TLS, proxies).
	Client *http.Client
	Logger zerolog.Logger
}

// HTTPTransport is the JSON-over-HTTP Transport used by every provider.
type HTTPTransport struct {
	config HTTPClientConfig
	client *http.Client
	closed atomic.Bool
}

// NewHTTPTransport creates a new provider HTTP transport
func NewHTTPTransport(config HTTPClientConfig) *HTTPTransport {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPTransport{
		config: config,
		client: client,
	}
}

// Post sends payload as a JSON body to path.
func (t *HTTPTransport) Post(ctx context.Context, payload any, path string) (Body, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &NetworkError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("failed to marshal JSON body: %w", err)}
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range t.config.PostHeaders {
		headers[k] = v
	}

	return t.do(ctx, http.MethodPost, path, nil, bytes.NewReader(jsonData), headers)
}

// Get sends a GET request to path with optional query parameters.
func (t *HTTPTransport) Get(ctx context.Context, path string, params map[string]string) (Body, error) {
	return t.do(ctx, http.MethodGet, path, params, nil, nil)
}

// Close releases idle connections. Calls made after Close fail with a
// NetworkError.
func (t *HTTPTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.client.CloseIdleConnections()
	return nil
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, params map[string]string, body io.Reader, headers map[string]string) (Body, error) {
	if t.closed.Load() {
		return nil, &NetworkError{Method: method, Path: path, Err: errTransportClosed}
	}

	fullURL, err := t.buildURL(path, params)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: fmt.Errorf("failed to create HTTP request: %w", err)}
	}

	for key, value := range t.config.DefaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	log := t.config.Logger
	log.Debug().
		Str("provider", t.config.Provider).
		Str("method", method).
		Str("path", path).
		Msg("making HTTP request")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Error().
			Str("provider", t.config.Provider).
			Str("path", path).
			Err(err).
			Msg("HTTP request failed")
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.Debug().
		Str("provider", t.config.Provider).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(respBody)).
		Msg("received HTTP response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody any = string(respBody)
		if parsed, perr := ParseBody(respBody); perr == nil {
			errBody = parsed
		}
		log.Error().
			Str("provider", t.config.Provider).
			Str("path", path).
			Int("status_code", resp.StatusCode).
			Msg("HTTP error status")
		return nil, &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: errBody}
	}

	parsed, err := ParseBody(respBody)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return parsed, nil
}

func joinURL(base, endpoint string) string {
	if strings.HasSuffix(base, "/") && strings.HasPrefix(endpoint, "/") {
		return base + endpoint[1:]
	}
	if !strings.HasSuffix(base, "/") && !strings.HasPrefix(endpoint, "/") {
		return base + "/" + endpoint
	}
	return base + endpoint
}

// buildURL constructs the full URL with query parameters
func (t *HTTPTransport) buildURL(endpoint string, queryParams map[string]string) (string, error) {
	fullURL := joinURL(t.config.BaseURL, endpoint)
	if len(queryParams) == 0 {
		return fullURL, nil
	}

	u, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", fullURL, err)
	}

	q := u.Query()
	for key, value := range queryParams {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
