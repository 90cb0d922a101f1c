package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrUnsupportedScheme is returned for references the loader cannot fetch.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// StatusError reports an HTTP response outside the 2xx range.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Resource is a loaded document or script.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
	Cached      bool
}

// AsString returns the resource content as a string.
func (r *Resource) AsString() string {
	return string(r.Content)
}

// UTF8 returns the content transcoded to UTF-8. The declared charset wins;
// an HTML resource without one is sniffed for a BOM or a meta charset.
// Other resources without a charset are returned as they are.
func (r *Resource) UTF8() ([]byte, error) {
	name := r.Charset
	if name == "" {
		if !IsHTMLContentType(r.ContentType) {
			return r.Content, nil
		}
		_, name, _ = charset.DetermineEncoding(r.Content, r.ContentType)
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%s: charset %q: %w", r.URL, name, err)
	}
	return enc.NewDecoder().Bytes(r.Content)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the filesystem local paths and file: URLs are read from.
func WithFS(fs afero.Fs) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithCache keeps every successful http(s) response in fs, under its host
// and path, and serves later loads of the same URL from there.
func WithCache(fs afero.Fs) LoaderOption {
	return func(l *Loader) {
		l.cache = fs
	}
}

// WithLogger sets the logger loads are reported to.
func WithLogger(logger logrus.FieldLogger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader loads resources from local paths, file:, data: and http(s) URLs.
// It is safe for concurrent use.
type Loader struct {
	client *Client
	fs     afero.Fs
	cache  afero.Fs
	logger logrus.FieldLogger
}

// NewLoader creates a loader fetching remote resources through client.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{
		client: client,
		fs:     afero.NewOsFs(),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches ref. A reference without a scheme is a local path.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	if IsDataURL(ref) {
		return loadDataURL(ref)
	}

	u, err := url.Parse(ref)
	if err != nil || len(u.Scheme) <= 1 {
		// no scheme, or a windows drive letter
		return l.loadFile(ref)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return l.loadFile(u.Path)
	case "http", "https":
		return l.loadHTTP(ctx, u)
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)
}

func loadDataURL(ref string) (*Resource, error) {
	data, err := ParseDataURL(ref)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:         ref,
		Content:     data.Data,
		ContentType: data.MediaType,
		Charset:     strings.ToLower(data.Charset),
		StatusCode:  http.StatusOK,
	}, nil
}

func (l *Loader) loadFile(name string) (*Resource, error) {
	content, err := afero.ReadFile(l.fs, name)
	if err != nil {
		return nil, err
	}
	fileURL, err := FileURL(name)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:         fileURL,
		Content:     content,
		ContentType: GuessContentType(name),
		StatusCode:  http.StatusOK,
	}, nil
}

func (l *Loader) loadHTTP(ctx context.Context, u *url.URL) (*Resource, error) {
	urlStr := u.String()
	log := l.logger.WithField("url", urlStr)

	cachePath := path.Join("/", u.Host, u.Path)
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		cachePath = path.Join(cachePath, "index")
	}
	if u.RawQuery != "" {
		cachePath += "?" + u.RawQuery
	}
	if l.cache != nil {
		content, err := afero.ReadFile(l.cache, cachePath)
		switch {
		case err == nil:
			log.Debug("served from cache")
			return cachedResource(urlStr, content), nil
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if l.client == nil {
		return nil, fmt.Errorf("%w %q: no HTTP client", ErrUnsupportedScheme, u.Scheme)
	}
	resp, err := l.client.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: urlStr, Status: resp.StatusCode}
	}
	log.WithField("status", resp.StatusCode).Debug("fetched")

	if l.cache != nil {
		err := l.cache.MkdirAll(path.Dir(cachePath), 0o755)
		if err == nil {
			err = afero.WriteFile(l.cache, cachePath, resp.Body, 0o644)
		}
		if err != nil {
			log.WithError(err).Warn("could not cache response")
		}
	}

	mediaType, cs := ParseContentType(resp.ContentType)
	if resp.ContentType == "" {
		mediaType = GuessContentType(urlStr)
	}
	return &Resource{
		URL:         resp.URL.String(),
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     cs,
		StatusCode:  resp.StatusCode,
	}, nil
}

// cachedResource rebuilds a resource from cached content. The content type
// comes from the URL, or from sniffing when the URL has no known extension.
func cachedResource(urlStr string, content []byte) *Resource {
	contentType := GuessContentType(urlStr)
	var cs string
	if contentType == "application/octet-stream" {
		contentType, cs = ParseContentType(http.DetectContentType(content))
	}
	return &Resource{
		URL:         urlStr,
		Content:     content,
		ContentType: contentType,
		Charset:     cs,
		StatusCode:  http.StatusOK,
		Cached:      true,
	}
}
