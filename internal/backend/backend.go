// Package backend implements the HTTP dispatcher for the document query
// service. Each Client talks to exactly one endpoint.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpproxy"

	"github.com/longkey1/docchat/internal/logging"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"

	// maxDetailLen bounds how much of an error body is kept for the log.
	maxDetailLen = 512
)

// QueryRequest is the request body accepted by every endpoint.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the success body returned by every endpoint.
type QueryResponse struct {
	Response *string `json:"response"`
}

// errorResponse is the error body produced by the backend framework.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Client implements docchat.Dispatcher for one endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the transport timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Transport: c.httpClient.Transport, Timeout: d}
		}
	}
}

// WithProxy routes requests through proxyURL unless the endpoint host matches
// noProxy. An empty proxyURL keeps the environment's proxy settings.
func WithProxy(proxyURL, noProxy string) Option {
	return func(c *Client) {
		if proxyURL == "" {
			return
		}
		proxyFunc := (&httpproxy.Config{
			HTTPProxy:  proxyURL,
			HTTPSProxy: proxyURL,
			NoProxy:    noProxy,
		}).ProxyFunc()

		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			return proxyFunc(req.URL)
		}
		c.httpClient = &http.Client{Transport: transport, Timeout: c.httpClient.Timeout}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL joined with path.
func NewClient(baseURL, path string, opts ...Option) (*Client, error) {
	endpoint, err := JoinURL(baseURL, path)
	if err != nil {
		return nil, err
	}

	c := &Client{
		url:        endpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// JoinURL validates baseURL and appends path to it.
func JoinURL(baseURL, path string) (string, error) {
	if baseURL == "" {
		return "", fmt.Errorf("base URL is not configured")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(u.String(), "/") + path, nil
}

// URL returns the endpoint this client posts to.
func (c *Client) URL() string {
	return c.url
}

// Dispatch posts query to the endpoint and returns the response text.
// It performs exactly one attempt.
func (c *Client) Dispatch(ctx context.Context, query string) (string, error) {
	defer logging.LogDuration(ctx, c.logger, "backend_dispatch")()

	body, err := json.Marshal(QueryRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:       KindStatus,
			URL:        c.url,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(respBody),
		}
	}

	var result QueryResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &Error{Kind: KindMalformed, URL: c.url, Detail: excerpt(respBody), Err: err}
	}
	if result.Response == nil {
		return "", &Error{
			Kind:   KindMalformed,
			URL:    c.url,
			Detail: excerpt(respBody),
			Err:    errors.New(`missing "response" field`),
		}
	}

	return *result.Response, nil
}

func (c *Client) transportError(err error) error {
	kind := KindTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, URL: c.url, Err: err}
}

// errorDetail extracts the backend's "detail" message, falling back to the raw body.
func errorDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && len(er.Detail) > 0 {
		var s string
		if err := json.Unmarshal(er.Detail, &s); err == nil {
			return s
		}
		return excerpt(er.Detail)
	}
	return excerpt(body)
}

func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxDetailLen {
		cut := maxDetailLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
