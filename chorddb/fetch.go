package chorddb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

const userAgent = "chordviewer/0.1 (+https://github.com/chase3718/chordviewer)"

// NewCachedClient returns an http.Client whose responses are cached under
// cacheDir, so separate runs share one download. An empty cacheDir keeps
// the cache in memory. Origin cache headers are replaced so the database is
// kept for maxAge.
func NewCachedClient(cacheDir string, maxAge time.Duration) *http.Client {
	var cache httpcache.Cache = httpcache.NewMemoryCache()
	if cacheDir != "" {
		cache = diskcache.New(cacheDir)
	}
	hc := httpcache.NewTransport(cache)
	hc.Transport = &headerOverrideTransport{
		wrapped: http.DefaultTransport,
		response: func(resp *http.Response) {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
		},
	}
	return &http.Client{Transport: hc, Timeout: 30 * time.Second}
}

type headerOverrideTransport struct {
	response func(resp *http.Response)
	wrapped  http.RoundTripper
}

func (t *headerOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.wrapped.RoundTrip(req.Clone(req.Context()))
	if err != nil {
		return nil, err
	}
	if t.response != nil {
		t.response(resp)
	}
	return resp, nil
}

// Fetch downloads and parses a database over HTTP.
func Fetch(ctx context.Context, client *http.Client, url string) (*DB, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("chorddb: fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chorddb: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("chorddb: fetch %s: %s", url, resp.Status)
	}
	slog.Debug("chorddb: fetched", "url", url, "cached", resp.Header.Get(httpcache.XFromCache) == "1")
	return Load(resp.Body)
}

// IsRemote reports whether a database source names an HTTP(S) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open loads a database from a source: "" or "embedded" for the built-in
// table, an http(s) URL, or a file path.
func Open(ctx context.Context, source string, client *http.Client) (*DB, error) {
	switch {
	case source == "" || source == "embedded":
		return Default()
	case IsRemote(source):
		if client == nil {
			client = http.DefaultClient
		}
		return Fetch(ctx, client, source)
	default:
		return LoadFile(source)
	}
}
