// Package fetch downloads job posting pages and reduces them to plain text.
package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/spigell/jobfit/internal/textutil"
)

const (
	userAgent       = "spigell/jobfit (+https://github.com/spigell/jobfit)"
	acceptHeader    = "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5"
	contentEncoding = "gzip"

	// DefaultTimeout bounds a single page download.
	DefaultTimeout = 8 * time.Second
	// DefaultMaxChars caps the text handed to the extractors.
	DefaultMaxChars = 20000

	maxBodyBytes = 2 << 20
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	MaxChars   int
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		UserAgent: userAgent,
		MaxChars:  DefaultMaxChars,
	}
}

// NormalizeURL trims raw and adds an https scheme when it is missing.
// It returns an empty string when raw cannot be used as a page address.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Hostname() == "" {
		return ""
	}

	return u.String()
}

// FetchText downloads rawURL and returns its readable text. Every failure
// (bad address, network error, timeout, non-text payload) yields an empty
// string.
func (c *Client) FetchText(ctx context.Context, rawURL string) string {
	target := NormalizeURL(rawURL)
	if target == "" {
		if strings.TrimSpace(rawURL) != "" {
			c.logger.Debug("skipping unusable posting url", zap.String("url", rawURL))
		}
		return ""
	}

	text, err := c.fetch(ctx, target)
	if err != nil {
		c.logger.Warn("fetching posting url failed", zap.String("url", target), zap.Error(err))
		return ""
	}

	c.logger.Debug("fetched posting url", zap.String("url", target), zap.Int("chars", len([]rune(text))))
	return text
}

func (c *Client) fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}

	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(data)
	}
	if !isTextual(contentType) {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	decoded, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	text := textutil.StripHTML(string(body))
	if c.MaxChars > 0 {
		text = textutil.Truncate(text, c.MaxChars)
	}

	return text, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	ua := c.UserAgent
	if strings.TrimSpace(ua) == "" {
		ua = userAgent
	}

	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func isTextual(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/xhtml+xml", mediaType == "application/xml", mediaType == "application/json":
		return true
	}

	return false
}
