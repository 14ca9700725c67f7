package pipeline

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/anicholas99/claimgraph/internal/cache"
	"github.com/anicholas99/claimgraph/internal/model"
	"github.com/anicholas99/claimgraph/internal/util"
)

// ErrRobotsDisallowed means the target host's robots.txt forbids fetching
// the requested path.
var ErrRobotsDisallowed = errors.New("blocked by robots.txt")

const maxFetchAttempts = 3

// maxCrawlDelay caps the robots.txt crawl delay we are willing to honor.
const maxCrawlDelay = 10 * time.Second

// Overridable for fast tests.
var fetchSleepFunc = time.Sleep

// Fetcher retrieves patent publication pages over HTTP. Fetches are rate
// limited per host, gated on robots.txt, and optionally served from a
// page cache.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *util.HostLimiter
	robots     *util.RobotsChecker
	pages      cache.Cache // nil disables page caching
	pageTTL    time.Duration
}

// NewFetcher creates a Fetcher from HTTP configuration. pages may be nil to
// disable page caching.
func NewFetcher(cfg model.HTTPConfig, pages cache.Cache, pageTTL time.Duration) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   util.NewHostLimiter(cfg.RatePerSec, cfg.Burst),
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		pages:     pages,
		pageTTL:   pageTTL,
	}
}

// FetchResult contains the fetched HTML and metadata.
type FetchResult struct {
	HTML      string          `json:"html"`
	Meta      model.FetchMeta `json:"meta"`
	Subject   string          `json:"subject"`
	FinalURL  string          `json:"final_url"`
	FromCache bool            `json:"-"`
}

// Fetch retrieves HTML content from the given URL. Cache hits skip the
// network entirely, including the robots check.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.Key("page", rawURL)
	if f.pages != nil {
		if data, ok := f.pages.Get(key); ok {
			var cached FetchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.FromCache = true
				return &cached, nil
			}
			_ = f.pages.Delete(key)
		}
	}

	allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
	}
	if delay > 0 {
		if delay > maxCrawlDelay {
			delay = maxCrawlDelay
		}
		fetchSleepFunc(delay)
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}

	// Store selected headers
	for _, header := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(header); val != "" {
			meta.Headers[header] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	// Read body with size limit
	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	result := &FetchResult{
		HTML:     string(body),
		Meta:     meta,
		Subject:  extractSubject(finalURL),
		FinalURL: finalURL,
	}

	if f.pages != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = f.pages.Set(key, data, f.pageTTL)
		}
	}
	return result, nil
}

// FetchWithRetry fetches with bounded retries on transient failures.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
		if attempt < maxFetchAttempts {
			fetchSleepFunc(time.Duration(attempt) * time.Second)
		}
	}
	return nil, lastErr
}

// isRetryableFetchError reports whether a fetch failure is worth retrying.
// Server-side errors and throttling are transient; client errors are not.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if idx := strings.Index(msg, "unexpected status: "); idx >= 0 {
		code := msg[idx+len("unexpected status: "):]
		if strings.HasPrefix(code, "429") {
			return true
		}
		return strings.HasPrefix(code, "5")
	}
	return strings.HasPrefix(msg, "fetch:")
}

var publicationNumberRe = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{4,}[A-Za-z0-9]*$`)

// extractSubject extracts a human-readable subject from the URL. Patent
// publication numbers (patents.google.com/patent/US10123456B2/en) win over
// the last path segment.
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if publicationNumberRe.MatchString(seg) {
			return seg
		}
	}

	// De-slugify the last path segment
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	// Remove file extensions
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
