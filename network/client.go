// Package network fetches the documents and scripts domprobe inspects.
package network

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Client is an HTTP client with a cookie jar shared by every request, so
// cookies set while fetching a document are sent when fetching its scripts.
type Client struct {
	httpClient   *http.Client
	cookieJar    http.CookieJar
	timeout      time.Duration
	maxRedirects int
	userAgent    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRedirects sets the maximum number of redirects to follow.
func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		cookieJar:    jar,
		timeout:      30 * time.Second,
		maxRedirects: 10,
		userAgent:    "domprobe/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   c.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.maxRedirects {
				return fmt.Errorf("stopped after %d redirects", c.maxRedirects)
			}
			return nil
		},
	}
	return c, nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode  int
	Status      string
	Headers     http.Header
	Body        []byte
	ContentType string
	URL         *url.URL // final URL after redirects
}

// Get fetches urlStr and reads the whole body, decompressing gzip.
func (c *Client) Get(ctx context.Context, urlStr string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Headers:     resp.Header,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         resp.Request.URL,
	}, nil
}

// Cookies returns the cookies the jar would send to u.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	return c.cookieJar.Cookies(u)
}

// ParseContentType splits a Content-Type header into its media type and
// lower-cased charset.
func ParseContentType(contentType string) (mediaType string, charset string) {
	if contentType == "" {
		return "application/octet-stream", ""
	}

	parts := strings.Split(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(parts[0]))
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "charset=") {
			charset = strings.Trim(part[len("charset="):], `"`)
			charset = strings.ToLower(charset)
			break
		}
	}
	return mediaType, charset
}

// IsHTMLContentType reports whether contentType names an HTML document.
func IsHTMLContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// IsJavaScriptContentType reports whether contentType names a script.
func IsJavaScriptContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	switch mediaType {
	case "text/javascript", "application/javascript", "application/x-javascript", "application/ecmascript":
		return true
	}
	return false
}
