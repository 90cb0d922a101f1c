package network

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrNotDataURL is returned by ParseDataURL for any other URL.
var ErrNotDataURL = errors.New("not a data URL")

// ResolveURL resolves ref against base. Absolute and data: references are
// returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if IsDataURL(ref) {
		return ref, nil
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// FileURL returns the file: URL of a local path.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// IsDataURL returns true if the URL is a data URL.
func IsDataURL(urlStr string) bool {
	return strings.HasPrefix(strings.ToLower(urlStr), "data:")
}

// DataURL represents a parsed data URL.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ParseDataURL parses data:[<mediatype>][;base64],<data>.
func ParseDataURL(urlStr string) (*DataURL, error) {
	if !IsDataURL(urlStr) {
		return nil, ErrNotDataURL
	}

	metadata, data, ok := strings.Cut(urlStr[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL: missing comma")
	}

	result := &DataURL{
		MediaType: "text/plain",
		Charset:   "US-ASCII",
	}
	for i, part := range strings.Split(metadata, ";") {
		switch {
		case i == 0 && part != "" && !strings.Contains(part, "=") && part != "base64":
			result.MediaType = part
		case part == "base64":
			result.Base64 = true
		case strings.HasPrefix(strings.ToLower(part), "charset="):
			result.Charset = part[len("charset="):]
		}
	}

	if result.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 data: %w", err)
		}
		result.Data = decoded
		return result, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("failed to URL-decode data: %w", err)
	}
	result.Data = []byte(decoded)
	return result, nil
}

// GuessContentType guesses a content type from the extension of a URL or
// path.
func GuessContentType(urlStr string) string {
	path := urlStr
	if u, err := url.Parse(urlStr); err == nil && u.Path != "" {
		path = u.Path
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".xhtml":
		return "application/xhtml+xml"
	case ".js", ".mjs":
		return "text/javascript"
	case ".css":
		return "text/css"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}
