package sheet

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	appLog "eventflow/internal/log"
)

const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Source represents the published spreadsheet.
type Source struct {
	// ID is an internal identifier used for logging.
	ID string
	// URL is the published link (http, https or file).
	URL string
	// Format is FormatAuto, FormatCSV or FormatXLSX.
	Format string
}

// FetchResult contains the outcome of fetching the source.
type FetchResult struct {
	Source      Source
	Body        []byte
	ContentType string
	FromCache   bool // true if we reused the remembered body due to 304
}

// cacheEntry holds HTTP validators and the last body for a URL.
type cacheEntry struct {
	ETag         string
	LastModified string
	Body         []byte
	ContentType  string
	UpdatedAt    time.Time
}

// Fetcher downloads sheets, honoring ETag / Last-Modified with an
// in-memory cache. It never retries.
type Fetcher struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFetcher creates a Fetcher. A zero timeout means requests are not
// bounded by the client; the caller's context still applies.
func NewFetcher(timeout time.Duration) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		cache: make(map[string]cacheEntry),
	}
}

// NewFetcherWithClient is used by tests to inject a client.
func NewFetcherWithClient(c *http.Client) *Fetcher {
	return &Fetcher{client: c, cache: make(map[string]cacheEntry)}
}

// Fetch performs one GET against src.URL.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (FetchResult, error) {
	rawURL, err := ResolveURL(src.URL)
	if err != nil {
		return FetchResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return FetchResult{}, &FetchError{URL: redactURL(rawURL), Err: err}
	}

	f.mu.Lock()
	meta, haveMeta := f.cache[rawURL]
	f.mu.Unlock()

	if haveMeta {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	appLog.Info("sheet fetch start", "id", src.ID, "url", redactURL(rawURL))

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, &FetchError{URL: redactURL(rawURL), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if !haveMeta || len(meta.Body) == 0 {
			return FetchResult{}, ErrNotModifiedWithoutBody
		}
		appLog.Info("sheet not modified; using remembered body", "id", src.ID, "url", redactURL(rawURL))
		return FetchResult{
			Source:      src,
			Body:        meta.Body,
			ContentType: meta.ContentType,
			FromCache:   true,
		}, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return FetchResult{}, &FetchError{URL: redactURL(rawURL), Status: resp.StatusCode, Err: readErr}
		}
		ct := resp.Header.Get("Content-Type")

		f.mu.Lock()
		f.cache[rawURL] = cacheEntry{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Body:         body,
			ContentType:  ct,
			UpdatedAt:    time.Now().UTC(),
		}
		f.mu.Unlock()

		appLog.Info("sheet fetch success", "id", src.ID, "url", redactURL(rawURL), "status", resp.StatusCode, "bytes", len(body))
		return FetchResult{
			Source:      src,
			Body:        body,
			ContentType: ct,
		}, nil

	default:
		return FetchResult{}, &FetchError{
			URL:    redactURL(rawURL),
			Status: resp.StatusCode,
			Err:    errors.New(resp.Status),
		}
	}
}

// ResolveURL accepts http(s) and file URLs, and turns bare filesystem
// paths into file URLs.
func ResolveURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return raw, nil
		}
	}
	if u == nil || u.Scheme == "" {
		abs, absErr := filepath.Abs(raw)
		if absErr != nil {
			return "", absErr
		}
		return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
	}
	return "", &FetchError{URL: redactURL(raw), Err: errors.New("unsupported URL scheme " + u.Scheme)}
}

// LocalPath returns the filesystem path behind a file URL or bare path.
func LocalPath(raw string) (string, bool) {
	resolved, err := ResolveURL(raw)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(resolved)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

// redactURL hides path and query of a sheet URL for logging; published
// sheet links act as bearer tokens.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" {
		return "sheet://...(redacted)"
	}
	if parsed.Scheme == "file" {
		return "file://" + redactedSuffix
	}
	return parsed.Scheme + "://" + parsed.Host + redactedSuffix
}
