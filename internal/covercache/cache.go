// Package covercache caches downloaded cover images on disk so the
// launcher can render them as result icons without re-fetching on every
// keystroke.
package covercache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/openshelf/openshelf/internal/fileutil"
)

const (
	// DefaultMaxAge is how long cached covers are kept before cleanup.
	DefaultMaxAge = 72 * time.Hour

	// Launcher icons are small; anything wider gets downscaled.
	defaultMaxWidth = 256

	// Open Library serves a tiny placeholder image instead of a 404 for
	// unknown covers. Real covers are comfortably above this size.
	defaultMinImageBytes = 1024

	downloadTimeout = 5 * time.Second
	userAgent       = "openshelf/1.0"
)

// ErrNoUsableCover is returned when none of the candidate URLs yielded
// a real cover image.
var ErrNoUsableCover = errors.New("no usable cover image")

// Cache is a directory of downloaded cover images keyed by name.
type Cache struct {
	dir           string
	httpClient    *http.Client
	maxWidth      int
	minImageBytes int
}

// New creates a cover cache rooted at dir. The directory is created on
// first use.
func New(dir string, opts ...Option) *Cache {
	cache := &Cache{
		dir:           dir,
		httpClient:    &http.Client{Timeout: downloadTimeout},
		maxWidth:      defaultMaxWidth,
		minImageBytes: defaultMinImageBytes,
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Option is a functional option for configuring the Cache.
type Option func(*Cache)

// WithHTTPClient sets a custom HTTP client for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(cache *Cache) {
		if c != nil {
			cache.httpClient = c
		}
	}
}

// WithMaxWidth sets the width covers are downscaled to.
func WithMaxWidth(width int) Option {
	return func(cache *Cache) {
		if width > 0 {
			cache.maxWidth = width
		}
	}
}

// WithMinImageBytes sets the placeholder-detection threshold.
func WithMinImageBytes(n int) Option {
	return func(cache *Cache) {
		if n > 0 {
			cache.minImageBytes = n
		}
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the cache file path for a cover name.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, fileutil.SanitizeFilename(name)+".jpg")
}

// Fetch returns the local path of the cover named name, downloading it
// from the first candidate URL that yields a real image. A cached file
// is reused without any network traffic; undersized cache files are
// treated as corrupt and replaced.
func (c *Cache) Fetch(ctx context.Context, name string, urls []string) (string, error) {
	if name == "" || len(urls) == 0 {
		return "", ErrNoUsableCover
	}

	path := c.Path(name)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		if info.Size() >= int64(c.minImageBytes) {
			return path, nil
		}
		_ = os.Remove(path)
	}

	var lastErr error
	for _, url := range urls {
		if err := c.download(ctx, url, path); err != nil {
			lastErr = err
			continue
		}
		return path, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrNoUsableCover, lastErr)
	}
	return "", ErrNoUsableCover
}

func (c *Cache) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading cover body: %w", err)
	}
	if len(body) < c.minImageBytes {
		return fmt.Errorf("cover from %s is %d bytes, likely a placeholder", url, len(body))
	}

	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decoding cover: %w", err)
	}

	if img.Bounds().Dx() > c.maxWidth {
		img = imaging.Resize(img, c.maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return imaging.Save(img, path, imaging.JPEGQuality(85))
}
