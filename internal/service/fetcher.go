package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"leadtracker/internal/log"
)

const (
	UserAgent           = "Mozilla/5.0 (compatible; LeadTracker/1.0)"
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	maxRedirects        = 5
)

// Fetcher retrieves the raw markup served at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (string, error)
}

// HTTPFetcher issues a single GET per call. It keeps no state between calls
// and is safe for concurrent use.
type HTTPFetcher struct {
	client       *http.Client
	maxBodyBytes int64
}

func NewHTTPFetcher(timeout time.Duration, maxBodyBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch returns the response body decoded to UTF-8. Bodies larger than the
// configured limit are truncated.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	start := time.Now()
	defer func() {
		fetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &DetectionError{Op: OpFetch, URL: targetURL, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Logger.Error("failed to fetch URL",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return "", &DetectionError{Op: OpFetch, URL: targetURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Logger.Warn("unexpected status code",
			zap.String("url", targetURL),
			zap.Int("status_code", resp.StatusCode),
		)
		return "", &DetectionError{
			Op:         OpFetch,
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	var body io.Reader = io.LimitReader(resp.Body, f.maxBodyBytes)
	if decoded, cerr := charset.NewReader(body, resp.Header.Get("Content-Type")); cerr == nil {
		body = decoded
	} else {
		log.Logger.Debug("charset detection failed, reading raw bytes",
			zap.String("url", targetURL),
			zap.Error(cerr),
		)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		log.Logger.Warn("failed to read response body",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return "", &DetectionError{Op: OpFetch, URL: targetURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.Logger.Info("fetched page",
		zap.String("url", targetURL),
		zap.Int("content_length", len(raw)),
		zap.Int("status_code", resp.StatusCode),
	)

	return string(raw), nil
}
