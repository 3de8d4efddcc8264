// Package httpclient implements the pipeline's one generic request-with-retry
// primitive (spec.md §4.1): POST a text body or GET a query string against a
// JSON-returning endpoint, classify failures as retryable or terminal, and
// back off exponentially between attempts.
//
// This is deliberately not built on the go-overpass library's own retry
// client. That library's RetryConfig shape (MaxRetries, InitialBackoff,
// MaxBackoff, BackoffMultiplier, Jitter) is the template this package's
// Policy follows, but the spec pins an exact, testable attempt/delay
// schedule shared by both the Overpass and Wikidata callers, so it is
// implemented once here instead of relying on a third-party default.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DaxServer/geocode-commons-categories/internal/model"
)

// Policy configures retry timing. The zero value is not usable; use
// DefaultPolicy.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  int
	// Sleep is overridable in tests so delays don't actually elapse.
	Sleep func(time.Duration)
}

// DefaultPolicy implements spec.md's authoritative retry constants:
// 3 attempts total, 1000ms/2000ms delays before attempts 2 and 3, no jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: model.MaxAttempts,
		BaseDelay:   model.RetryBaseDelay,
		Multiplier:  model.RetryMultiplier,
		Sleep:       time.Sleep,
	}
}

// Client performs retried HTTP requests against a single endpoint style.
type Client struct {
	HTTP      *http.Client
	Policy    Policy
	UserAgent string
}

// New creates a Client with DefaultPolicy and http.DefaultClient.
func New(userAgent string) *Client {
	return &Client{
		HTTP:      http.DefaultClient,
		Policy:    DefaultPolicy(),
		UserAgent: userAgent,
	}
}

// delayBeforeAttempt returns the sleep duration before attempt n (1-indexed).
// n=1 sleeps 0; n>=2 sleeps BaseDelay * Multiplier^(n-2).
func (p Policy) delayBeforeAttempt(n int) time.Duration {
	if n <= 1 {
		return 0
	}
	mult := 1
	for i := 0; i < n-2; i++ {
		mult *= p.Multiplier
	}
	return p.BaseDelay * time.Duration(mult)
}

// isRetryableStatus reports whether an HTTP status code should be retried.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// PostForm POSTs a form-encoded body (Overpass's "data=<query>" convention)
// and decodes the JSON response into out. No pipeline stage calls it:
// Overpass requests go through go-overpass with NewRetryHTTPClient.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	return c.do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("%w: build request: %v", model.ErrTerminalTransport, err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		return c.HTTP.Do(req)
	}, out)
}

// GetQuery issues a GET with the given query parameters and decodes the JSON
// response into out. Used by C5.
func (c *Client) GetQuery(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	return c.do(ctx, func(ctx context.Context) (*http.Response, error) {
		full := endpoint
		if encoded := query.Encode(); encoded != "" {
			full = endpoint + "?" + encoded
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: build request: %v", model.ErrTerminalTransport, err)
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		return c.HTTP.Do(req)
	}, out)
}

// do runs the retry loop shared by PostForm/GetQuery.
func (c *Client) do(ctx context.Context, send func(context.Context) (*http.Response, error), out interface{}) error {
	policy := c.Policy
	if policy.MaxAttempts == 0 {
		policy = DefaultPolicy()
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		policy.Sleep(policy.delayBeforeAttempt(attempt))

		body, status, err := roundTrip(ctx, send)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", model.ErrRetryable, err)
			continue
		}

		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			if isRetryableStatus(status) {
				lastErr = fmt.Errorf("%w: http %d", model.ErrRetryable, status)
				continue
			}
			return fmt.Errorf("%w: http %d", model.ErrTerminalTransport, status)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", model.ErrTerminalTransport, err)
		}
		return nil
	}

	return lastErr
}

func roundTrip(ctx context.Context, send func(context.Context) (*http.Response, error)) ([]byte, int, error) {
	resp, err := send(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// EncodeForm is a small helper so callers building an Overpass "data" body
// don't need to import net/url directly.
func EncodeForm(key, value string) url.Values {
	v := url.Values{}
	v.Set(key, value)
	return v
}

// retryTransport applies Policy at the http.RoundTripper level. It exists so
// libraries that own their own request/decode cycle (go-overpass's Client)
// can still be driven by this package's single retry schedule instead of
// their own default one.
type retryTransport struct {
	inner  http.RoundTripper
	policy Policy
}

// NewRetryHTTPClient returns an *http.Client whose Transport retries
// according to policy. Intended for handing to third-party clients that
// perform their own request construction and response decoding.
func NewRetryHTTPClient(policy Policy) *http.Client {
	if policy.MaxAttempts == 0 {
		policy = DefaultPolicy()
	}
	return &http.Client{Transport: &retryTransport{inner: http.DefaultTransport, policy: policy}}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= t.policy.MaxAttempts; attempt++ {
		t.policy.Sleep(t.policy.delayBeforeAttempt(attempt))

		attemptReq := req
		if attempt > 1 {
			clone := req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("%w: rebuild request body: %v", model.ErrTerminalTransport, err)
				}
				clone.Body = body
			}
			attemptReq = clone
		}

		resp, err := t.inner.RoundTrip(attemptReq)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", model.ErrRetryable, err)
			continue
		}

		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: http %d", model.ErrRetryable, resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}
