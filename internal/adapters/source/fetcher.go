// Package source loads tournament CSV files from HTTP or disk and turns them
// into raw rows for the extractor.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/okian/vbrank/pkg/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultBackoff   = 200 * time.Millisecond
	defaultUserAgent = "vbrank/1.0"
	maxBodyBytes     = 32 << 20
)

// Source names one CSV input. Exactly one of URL and Path is set.
type Source struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
	Path  string `json:"path,omitempty"`
}

// Location returns the URL or path, whichever is set.
func (s Source) Location() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// Fetcher downloads sources with retries.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	retries   uint64
	backoff   time.Duration
	logger    logger.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout bounds a single HTTP attempt. It applies to any client,
// including one set by WithHTTPClient, which is left unmodified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = uint64(n)
		}
	}
}

// WithBackoff sets the base of the exponential backoff between retries.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.backoff = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		retries:   2,
		backoff:   defaultBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Get().Named("source")
	}
	return f
}

// Fetch returns the raw bytes of s. Local paths are read from disk; URLs are
// requested with retries on network errors, 429 and 5xx responses.
func (f *Fetcher) Fetch(ctx context.Context, s Source) ([]byte, error) {
	if s.Path != "" {
		b, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.Path, err)
		}
		return b, nil
	}
	if s.URL == "" {
		return nil, fmt.Errorf("%w: source %q has no location", ErrFetch, s.Label)
	}

	var body []byte
	attempt := 0
	b := retry.WithMaxRetries(f.retries, retry.NewExponential(f.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		var err error
		body, err = f.get(ctx, s.URL)
		if err != nil && ctx.Err() == nil && isTransient(err) {
			f.logger.Debug(ctx, "fetch attempt failed",
				logger.String("url", s.URL),
				logger.Int("attempt", attempt),
				logger.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("%w: %s: %w", ErrFetch, url, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("%w: %s: %w", ErrFetch, url, err)}
	}
	return body, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %d", ErrStatus, e.URL, e.Code)
}

// Unwrap lets errors.Is match ErrStatus.
func (e *StatusError) Unwrap() error { return ErrStatus }

// transportError marks a failure talking to the server, as opposed to a
// request that could never be built.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var te *transportError
	return errors.As(err, &te)
}
