// Package httpclient provides a rate-limited, retrying HTTP transport.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go"

	"github.com/cesargomez89/tajikquran/internal/constants"
)

// Transport spaces out requests and retries network errors, 429 and 503
// with exponential backoff. A Retry-After header pushes back the next
// allowed request slot.
type Transport struct {
	base http.RoundTripper

	minRequestInterval time.Duration
	attempts           uint
	retryBase          time.Duration

	lastRequest time.Time
	mu          sync.Mutex
}

// Option configures a Transport.
type Option func(*Transport)

func WithAttempts(n uint) Option {
	return func(t *Transport) { t.attempts = n }
}

func WithRetryBase(d time.Duration) Option {
	return func(t *Transport) { t.retryBase = d }
}

// NewTransport wraps base. A nil base uses a pooled http.Transport.
func NewTransport(base http.RoundTripper, minRequestInterval time.Duration, opts ...Option) *Transport {
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		}
	}
	t := &Transport{
		base:               base,
		minRequestInterval: minRequestInterval,
		attempts:           constants.DefaultRetryCount,
		retryBase:          constants.DefaultRetryBase,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.attempts == 0 {
		t.attempts = 1
	}
	return t
}

// NewClient returns an *http.Client using a Transport.
func NewClient(timeout, minRequestInterval time.Duration, opts ...Option) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(nil, minRequestInterval, opts...),
	}
}

// statusError marks a retryable response status.
type statusError struct {
	status     int
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("rate limited (status %d)", e.status)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var resp *http.Response

	err := retry.Do(
		func() error {
			if err := t.wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			attemptReq, err := rewind(req)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			r, err := t.base.RoundTrip(attemptReq)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				return err
			}
			if r.StatusCode == http.StatusServiceUnavailable || r.StatusCode == http.StatusTooManyRequests {
				retryAfter := parseRetryAfter(r)
				_ = r.Body.Close()
				if retryAfter > 0 {
					t.pushBack(retryAfter)
				}
				return &statusError{status: r.StatusCode, retryAfter: retryAfter}
			}
			resp = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(t.attempts),
		retry.Delay(t.retryBase),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			backoff := retry.BackOffDelay(n, err, config)
			var se *statusError
			if errors.As(err, &se) && se.retryAfter > backoff {
				return se.retryAfter
			}
			return backoff
		}),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// wait blocks until the next request slot is free.
func (t *Transport) wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	nextAllowed := t.lastRequest.Add(t.minRequestInterval)
	var waitTime time.Duration
	if now.Before(nextAllowed) {
		waitTime = nextAllowed.Sub(now)
		t.lastRequest = nextAllowed
	} else {
		t.lastRequest = now
	}
	t.mu.Unlock()

	if waitTime <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(waitTime)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *Transport) pushBack(d time.Duration) {
	t.mu.Lock()
	next := time.Now().Add(d)
	if t.lastRequest.Before(next) {
		t.lastRequest = next
	}
	t.mu.Unlock()
}

// rewind returns a request whose body can be read again.
func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rewind request body: %w", err)
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

// parseRetryAfter reads a Retry-After header and returns the duration to wait.
func parseRetryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		return time.Until(t)
	}
	return 0
}
