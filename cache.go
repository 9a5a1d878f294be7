package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// cachedResponse is a helper struct to store the response fields
// we care about in a simple JSON format.
type cachedResponse struct {
	Status     string              `json:"status"`
	StatusCode int                 `json:"status_code"`
	Proto      string              `json:"proto"`
	Header     map[string][]string `json:"header"`
	Body       []byte              `json:"body"`
}

// CachingRoundTripper implements http.RoundTripper. Only successful GET responses are
// stored; everything else goes straight to the underlying transport.
type CachingRoundTripper struct {
	// UnderlyingTransport will be used when there's a cache miss.
	// If nil, http.DefaultTransport will be used.
	UnderlyingTransport http.RoundTripper

	// CacheDir is the directory where response files are stored.
	CacheDir string

	// MaxAge expires cache files older than this. Zero keeps them forever.
	MaxAge time.Duration
}

func (c *CachingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	underlying := c.UnderlyingTransport
	if underlying == nil {
		underlying = http.DefaultTransport
	}
	if req.Method != http.MethodGet {
		return underlying.RoundTrip(req)
	}

	// Headers are ignored, so only method and URL make up the key.
	cacheFilePath := c.cacheFilePath(cacheKey(req.Method, req.URL.String()))

	if info, err := os.Stat(cacheFilePath); err == nil && c.fresh(info.ModTime()) {
		return c.loadCachedResponse(cacheFilePath, req)
	}

	resp, err := underlying.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cr := cachedResponse{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header.Clone(),
		Body:       respBodyBytes,
	}
	if err := saveCachedResponse(cacheFilePath, &cr); err != nil {
		return nil, err
	}

	return buildHTTPResponse(req, cr), nil
}

func (c *CachingRoundTripper) fresh(modified time.Time) bool {
	return c.MaxAge <= 0 || time.Since(modified) < c.MaxAge
}

// cacheKey builds a SHA-256 hash string from method and url.
func cacheKey(method, url string) string {
	hash := sha256.New()
	hash.Write([]byte(method))
	hash.Write([]byte(url))
	return hex.EncodeToString(hash.Sum(nil))
}

// cacheFilePath returns the path to the cache file for the given key.
func (c *CachingRoundTripper) cacheFilePath(key string) string {
	return fmt.Sprintf("%s/%s.json", c.CacheDir, key)
}

// loadCachedResponse reads the cached file, deserializes it, and returns an *http.Response.
func (c *CachingRoundTripper) loadCachedResponse(path string, req *http.Request) (*http.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cr cachedResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, err
	}

	return buildHTTPResponse(req, cr), nil
}

// saveCachedResponse saves the response struct to a file in JSON format.
func saveCachedResponse(path string, cr *cachedResponse) error {
	data, err := json.MarshalIndent(cr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// buildHTTPResponse constructs a new *http.Response from cachedResponse data.
func buildHTTPResponse(req *http.Request, cr cachedResponse) *http.Response {
	return &http.Response{
		Status:        cr.Status,
		StatusCode:    cr.StatusCode,
		Proto:         cr.Proto,
		Header:        cr.Header,
		Body:          io.NopCloser(bytes.NewReader(cr.Body)),
		ContentLength: int64(len(cr.Body)),
		Request:       req,
	}
}
