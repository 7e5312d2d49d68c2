package mcsrvstat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the mcsrvstat.us v2 endpoint. The server address is
	// appended as the final path segment.
	DefaultBaseURL = "https://api.mcsrvstat.us/2/"

	defaultUserAgent    = "craftboard"
	maxResponseBodySize = 1 << 20 // 1MB
)

// connection pooling limits; a dashboard talks to a single upstream host
const (
	defaultMaxIdleConns        = 4
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 90 * time.Second
)

// FailureKind classifies a [PollError] for diagnostics. All kinds are handled
// the same way by the poller.
type FailureKind string

const (
	FailureRequest FailureKind = "request"
	FailureStatus  FailureKind = "status"
	FailureDecode  FailureKind = "decode"
)

// PollError is returned by [Client.Fetch] for any failure to obtain and
// parse a valid status document.
type PollError struct {
	Kind       FailureKind
	Address    string
	StatusCode int
	Err        error
}

func (e *PollError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("poll %s failed (%s, http %d): %v", e.Address, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("poll %s failed (%s): %v", e.Address, e.Kind, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// Client fetches server status documents from the status API.
//
// Client sets no request timeout of its own; a request lasts until the
// server answers, the transport gives up, or the context passed to
// [Client.Fetch] is cancelled.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a [Client] for the given base URL. An empty base URL
// selects [DefaultBaseURL].
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the base URL requests are made against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch issues one GET for address and decodes the response.
//
// Network errors, non-2xx responses and malformed bodies are all returned
// as a *[PollError]. Fetch never retries.
func (c *Client) Fetch(ctx context.Context, address string) (Response, error) {
	if strings.TrimSpace(address) == "" {
		return Response{}, &PollError{Kind: FailureRequest, Address: address, Err: errors.New("server address is empty")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(address), nil)
	if err != nil {
		return Response{}, &PollError{Kind: FailureRequest, Address: address, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &PollError{Kind: FailureRequest, Address: address, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{}, &PollError{Kind: FailureRequest, Address: address, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &PollError{
			Kind:       FailureStatus,
			Address:    address,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return Response{}, &PollError{Kind: FailureDecode, Address: address, StatusCode: resp.StatusCode, Err: err}
	}
	return out, nil
}

// Snapshot fetches the status of address and normalizes it.
func (c *Client) Snapshot(ctx context.Context, address string) (Snapshot, error) {
	resp, err := c.Fetch(ctx, address)
	if err != nil {
		return Snapshot{}, err
	}
	return Normalize(resp), nil
}

// Close closes idle connections. The client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
