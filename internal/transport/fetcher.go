// Package transport holds the HTTP plumbing shared by the metadata and scrape
// clients: proxy and timeout setup, response decompression, request pacing and
// bounded retries.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"golang.org/x/time/rate"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/metrics"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
)

// StatusError is returned when an upstream answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// IsStatus reports whether err carries an upstream response with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Fetcher performs paced, retried GET requests against one upstream service.
type Fetcher struct {
	service    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retrypolicy.RetryPolicy[[]byte]
}

// NewHTTPClient builds the HTTP client used for all upstream requests, with
// optional proxy and transparent decompression.
func NewHTTPClient(cfg *config.Config) *http.Client {
	logger := config.GetLogger()

	timeout := defaultTimeout
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to keep its connection pooling and HTTP/2 settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: newDecompressingTransport(baseTransport),
	}
}

// NewFetcher creates a Fetcher for the named service ("omdb", "imdb").
func NewFetcher(service string, cfg *config.Config, httpClient *http.Client) *Fetcher {
	logger := config.GetLogger()

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	delay := defaultRetryDelay
	if cfg.Retry.Delay != "" {
		if parsed, err := time.ParseDuration(cfg.Retry.Delay); err != nil {
			logger.Warn().Err(err).Str("delay", cfg.Retry.Delay).Msg("Invalid retry delay, using default 500ms")
		} else {
			delay = parsed
		}
	}
	maxRetries := cfg.Retry.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	policy := retrypolicy.NewBuilder[[]byte]().
		HandleIf(func(_ []byte, err error) bool {
			return isRetryable(err)
		}).
		WithBackoff(delay, 10*delay).
		WithMaxRetries(maxRetries).
		OnRetry(func(e failsafe.ExecutionEvent[[]byte]) {
			metrics.UpstreamRequestsTotal.WithLabelValues(service, "retry").Inc()
			logger.Debug().Str("service", service).Int("attempt", e.Attempts()).Err(e.LastError()).Msg("Retrying upstream request")
		}).
		Build()

	return &Fetcher{
		service:    service,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		retry:      policy,
	}
}

// Get fetches target and returns the response body. Every failure is reported
// as an *apperrors.ErrUpstream; a non-200 answer wraps a *StatusError.
func (f *Fetcher) Get(ctx context.Context, target string) ([]byte, error) {
	body, err := failsafe.With[[]byte](f.retry).WithContext(ctx).Get(func() ([]byte, error) {
		return f.getOnce(ctx, target)
	})
	if err != nil {
		status := "error"
		if IsStatus(err, http.StatusNotFound) {
			status = "not_found"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(f.service, status).Inc()
		return nil, apperrors.NewUpstreamError(f.service, target, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(f.service, "ok").Inc()
	return body, nil
}

func (f *Fetcher) getOnce(ctx context.Context, target string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused by the next attempt
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// isRetryable reports whether a failed attempt may succeed if repeated:
// transport errors, 429 and 5xx answers. Cancellation is final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}
