package collector

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Fetcher issues one provider query and returns the raw response body.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]byte, error)
	Name() string
}

// RetryPolicy bounds how often a failed request is repeated.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Defaults used by DefaultRetryPolicy.
const (
	DefaultMaxAttempts = 5
	DefaultBackoff     = 60 * time.Second
)

// DefaultRetryPolicy returns 5 attempts spaced 60s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Backoff: DefaultBackoff}
}

// Validate rejects policies that cannot make a single attempt.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max_attempts must be at least 1, got %d", ErrInvalidPolicy, p.MaxAttempts)
	}
	if p.Backoff < 0 {
		return fmt.Errorf("%w: backoff must be non-negative, got %v", ErrInvalidPolicy, p.Backoff)
	}
	return nil
}

// RetryingFetcher implements Fetcher against the Alpha Vantage query endpoint,
// retrying any non-200 outcome with a fixed delay.
type RetryingFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Policy  RetryPolicy

	// Sleep waits between attempts; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryingFetcher creates a fetcher with optional proxy support. A zero
// timeout leaves requests unbounded.
func NewRetryingFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration, policy RetryPolicy) *RetryingFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Printf("[WARN] alphavantage: ignoring malformed proxy url: %v", err)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RetryingFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Policy: policy,
	}
}

func (f *RetryingFetcher) Name() string { return "alphavantage" }

// Fetch runs q until it returns 200 OK or the policy's attempts are spent.
// Exhaustion is reported as an error wrapping ErrUnavailable.
func (f *RetryingFetcher) Fetch(ctx context.Context, q Query) ([]byte, error) {
	if err := f.Policy.Validate(); err != nil {
		return nil, err
	}
	params, err := q.Values()
	if err != nil {
		return nil, err
	}

	fn := q.Function()
	var lastErr error
	for attempt := 1; attempt <= f.Policy.MaxAttempts; attempt++ {
		body, status, err := f.attempt(ctx, params)
		switch {
		case err != nil:
			lastErr = err
			log.Printf("[WARN] %s attempt %d/%d failed: %v", fn, attempt, f.Policy.MaxAttempts, err)
		case status != http.StatusOK:
			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
			log.Printf("[INFO] %s status code: %d (attempt %d/%d)", fn, status, attempt, f.Policy.MaxAttempts)
		default:
			log.Printf("[INFO] %s status code: %d", fn, status)
			return body, nil
		}

		if attempt < f.Policy.MaxAttempts {
			if err := f.wait(ctx); err != nil {
				return nil, fmt.Errorf("%s: %w", fn, err)
			}
		}
	}
	return nil, fmt.Errorf("%s after %d attempts: %w: %w", fn, f.Policy.MaxAttempts, ErrUnavailable, lastErr)
}

// attempt builds a fresh request from params and performs it once.
func (f *RetryingFetcher) attempt(ctx context.Context, params url.Values) ([]byte, int, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return nil, 0, fmt.Errorf("parse base url: %w", err)
	}
	query := u.Query()
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("apikey", f.APIKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, 0, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		// The URL carries the API key; report only the cause.
		if ue, ok := err.(*url.Error); ok {
			err = ue.Err
		}
		return nil, 0, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (f *RetryingFetcher) wait(ctx context.Context) error {
	if f.Sleep != nil {
		return f.Sleep(ctx, f.Policy.Backoff)
	}
	if f.Policy.Backoff <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.Policy.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
