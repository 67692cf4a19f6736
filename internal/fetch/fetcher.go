// Package fetch retrieves raw documents from the story site through a
// rotating set of relay endpoints, retrying with a timeout per attempt.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/brogergvhs/storyd/internal/proxy"
	"github.com/brogergvhs/storyd/internal/ui"
)

const (
	DefaultMaxAttempts   = 3
	DefaultTimeout       = 30 * time.Second
	DefaultBackoff       = 2 * time.Second
	DefaultMinBodyLength = 100
)

// ErrShortBody is returned for responses whose body is below the minimum
// length. Relays answer 200 with an empty page when the upstream fails.
var ErrShortBody = errors.New("response body too short")

// Doer is the part of *http.Client the fetcher needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	MaxAttempts   int
	Timeout       time.Duration
	Backoff       time.Duration
	MinBodyLength int
	Headers       map[string]string
}

func DefaultOptions() Options {
	return Options{
		MaxAttempts:   DefaultMaxAttempts,
		Timeout:       DefaultTimeout,
		Backoff:       DefaultBackoff,
		MinBodyLength: DefaultMinBodyLength,
	}
}

// RetrievalError reports a target that could not be fetched through any
// relay within the allowed attempts.
type RetrievalError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	client  Doer
	rotator *proxy.Rotator
	opts    Options
	log     *ui.Logger
}

func New(client Doer, rotator *proxy.Rotator, log *ui.Logger, opts Options) *Fetcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.MinBodyLength <= 0 {
		opts.MinBodyLength = DefaultMinBodyLength
	}
	if rotator == nil {
		rotator = proxy.NewRotator(nil)
	}
	if log == nil {
		log = ui.Nop()
	}

	return &Fetcher{
		client:  client,
		rotator: rotator,
		opts:    opts,
		log:     log,
	}
}

func (f *Fetcher) Rotator() *proxy.Rotator {
	return f.rotator
}

// Fetch returns the body of target, trying up to maxAttempts relays.
// A non-positive maxAttempts uses the configured default. The rotator
// advances after every failed attempt except the last one.
func (f *Fetcher) Fetch(ctx context.Context, target string, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = f.opts.MaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		endpoint := f.rotator.Current()
		f.log.Debugf("fetch %s via %s (attempt %d/%d)\n", target, endpoint, attempt, maxAttempts)

		body, err := f.attempt(ctx, endpoint, target)
		if err == nil {
			return body, nil
		}

		lastErr = err
		f.log.Debugf("attempt %d for %s failed: %v\n", attempt, target, err)

		if ctx.Err() != nil {
			return "", &RetrievalError{URL: target, Attempts: attempt, Err: ctx.Err()}
		}

		if attempt == maxAttempts {
			break
		}

		f.rotator.Advance()

		if err := sleep(ctx, f.opts.Backoff); err != nil {
			return "", &RetrievalError{URL: target, Attempts: attempt, Err: err}
		}
	}

	return "", &RetrievalError{URL: target, Attempts: maxAttempts, Err: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, endpoint proxy.Endpoint, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.Wrap(target), nil)
	if err != nil {
		return "", err
	}

	for k, v := range f.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.log.Debugf("failed to close response body for %s: %v\n", target, cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	body := string(b)
	if n := utf8.RuneCountInString(body); n < f.opts.MinBodyLength {
		return "", fmt.Errorf("%w: %d characters", ErrShortBody, n)
	}

	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
