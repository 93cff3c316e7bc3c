// Package netclient is the single-attempt HTTP client used by the payload for
// its two network operations: the external address lookup and the simulated
// exfiltration POST.
package netclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultUserAgent identifies simulated traffic so defenders can attribute it.
	DefaultUserAgent = "stratus-red-team/2.0 (github.com/datadog/stratus-red-team)"
	DefaultTimeout   = 10 * time.Second
)

var (
	// ErrTimeout is wrapped by errors for calls that did not complete in time.
	ErrTimeout = errors.New("request timeout")
	// ErrNetwork is wrapped by transport-level failures (DNS, refused, reset).
	ErrNetwork = errors.New("network error")
)

// State is the terminal state of a single call.
type State int

const (
	Pending State = iota
	Completed
	TimedOut
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case TimedOut:
		return "timed_out"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// StateOf maps the error returned by Get or Post to the call's terminal state.
func StateOf(err error) State {
	switch {
	case err == nil:
		return Completed
	case errors.Is(err, ErrTimeout):
		return TimedOut
	default:
		return Failed
	}
}

// Response is the outcome of a completed POST.
type Response struct {
	StatusCode int
	Body       string
}

// Config controls the client. Zero values fall back to the defaults above.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	// Transport is mainly for tests; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client performs bounded GET/POST requests. Each call is attempted once.
type Client struct {
	timeout   time.Duration
	userAgent string
	http      *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		// The deadline lives on the per-call context so it covers reading
		// the body as well as the round trip.
		http: &http.Client{
			Transport: cfg.Transport,
			// A redirect is reported as the response; the Location is
			// never contacted.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Timeout returns the per-call deadline.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Get fetches url and returns the trimmed response body.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Body), nil
}

// Post sends body as application/octet-stream. A non-2xx status is not an
// error; the caller decides what the status code means.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
		req.ContentLength = int64(len(body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classify(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: string(data)}, nil
}

func (c *Client) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
