// Package fetch downloads GeoJSON documents over HTTP for the URL adapter.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "gjmap/0.1"
	DefaultMaxBytes  = 64 << 20
	DefaultCacheSize = 32

	acceptHeader = "application/geo+json, application/json"
)

var (
	ErrScheme   = errors.New("only http and https URLs can be loaded")
	ErrTooLarge = errors.New("response body too large")
)

// StatusError is a non-2xx response. Its message is the status line, e.g. "404 Not Found".
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	Timeout   time.Duration // 0 disables the per-request timeout
	Rate      float64       // requests per second
	Burst     int
	CacheSize int
	MaxBytes  int64
	UserAgent string
	Logger    *slog.Logger
}

type entry struct {
	etag         string
	lastModified string
	body         []byte
}

// Client is an HTTP getter with rate limiting, request coalescing and a
// small validator cache for conditional GETs.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	cache   *lru.Cache[string, entry]
	opts    Options
	logger  *slog.Logger
}

// New creates a Client. A nil hc uses a pooled client with opts.Timeout.
func New(hc *http.Client, opts Options) (*Client, error) {
	if opts.Rate <= 0 {
		opts.Rate = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 2
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if hc == nil {
		hc = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	cache, err := lru.New[string, entry](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("fetch cache: %w", err)
	}
	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst),
		cache:   cache,
		opts:    opts,
		logger:  opts.Logger,
	}, nil
}

// Get returns the body behind rawURL. Concurrent calls for the same URL share
// one request.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrScheme
	}
	v, err, shared := c.group.Do(u.String(), func() (any, error) {
		return c.get(ctx, u.String())
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("shared in-flight request", "url", u.Redacted())
	}
	return v.([]byte), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.opts.UserAgent)

	cached, hasCached := c.cache.Get(rawURL)
	if hasCached {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log := c.logger.With("url", req.URL.Redacted(), "status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode == http.StatusNotModified && hasCached {
		log.Debug("not modified, using cached body")
		return cached.body, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Info("fetch failed")
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.opts.MaxBytes {
		return nil, ErrTooLarge
	}
	log.Debug("fetched", "bytes", len(body))

	e := entry{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		body:         body,
	}
	if e.etag != "" || e.lastModified != "" {
		c.cache.Add(rawURL, e)
	} else {
		c.cache.Remove(rawURL)
	}
	return body, nil
}
