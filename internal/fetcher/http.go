package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// HTTPFetcher downloads samples over HTTP.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "logsense/1.0"
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// transientStatus reports whether an HTTP status is safe to retry.
func transientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Get fetches the URL and returns the response body, retrying transient
// failures with exponential backoff. The caller must close the returned
// ReadCloser.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			zap.L().Warn("fetcher: retrying http get",
				zap.String("url", url), zap.Int("attempt", attempt+1), zap.Error(lastErr))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, lastErr
			case <-timer.C:
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: build request")
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)

		zap.L().Debug("fetcher: http get", zap.String("url", url))

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = eris.Wrapf(err, "fetcher: get %s", url)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		resp.Body.Close()
		lastErr = eris.Errorf("fetcher: get %s: unexpected status %d", url, resp.StatusCode)
		if !transientStatus(resp.StatusCode) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}
