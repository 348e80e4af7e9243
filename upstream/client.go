package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/craigatron/football-bot/metrics"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const defaultTimeout = 1 * time.Minute

// Client fetches JSON documents from a single upstream. Every request goes
// through a rate limiter and a circuit breaker so a flapping upstream fails
// fast instead of stalling every command.
type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	metrics    *metrics.Recorder
	decorate   []func(*http.Request)
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRateLimit caps the request rate to r requests per second.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(cl *Client) {
		cl.limiter = rate.NewLimiter(r, burst)
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// WithRequestDecorator runs fn on every outgoing request, e.g. to add auth cookies.
func WithRequestDecorator(fn func(*http.Request)) Option {
	return func(cl *Client) {
		cl.decorate = append(cl.decorate, fn)
	}
}

func New(name string, opts ...Option) *Client {
	c := &Client{
		name: name,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, o := range opts {
		o(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only outages count against the breaker; a 404 or a bad body is the
		// caller's problem, not a sign the upstream is down.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return !errors.Is(err, ErrTransport)
		},
	})
	return c
}

// GetJSON fetches url and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error parsing response from %s: %w: %v", c.name, ErrSchema, err)
	}
	return nil
}

// Get fetches url and returns the raw body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("error waiting for %s rate limiter: %w", c.name, err)
	}

	start := time.Now()
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, url)
	})
	if err != nil {
		c.metrics.RecordUpstream(c.name, "error", time.Since(start))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("error sending %s http request: %w: %v", c.name, ErrTransport, err)
		}
		return nil, err
	}
	c.metrics.RecordUpstream(c.name, "ok", time.Since(start))
	return res.([]byte), nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating %s http request: %w", c.name, err)
	}
	for _, d := range c.decorate {
		d(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending %s http request: %w: %v", c.name, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Upstream: c.name, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %s response body: %w: %v", c.name, ErrTransport, err)
	}
	return body, nil
}
