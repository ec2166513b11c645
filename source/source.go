// Package source downloads the butler archive from a remote location.
//
// Locations are URLs. http(s):// URLs are fetched with a plain GET, s3://
// URLs are read from S3 with the default AWS credential chain. Mux routes a
// URL to the fetcher registered for its scheme.
package source

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
)

// Fetcher copies the content located at rawURL into w.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, w io.Writer) error
}

// Mux dispatches fetches on the URL scheme. It is safe for concurrent use.
type Mux struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewMux returns a Mux serving http, https and s3 URLs.
func NewMux() *Mux {
	m := &Mux{fetchers: make(map[string]Fetcher)}
	h := NewHTTP()
	m.Handle("http", h)
	m.Handle("https", h)
	m.Handle("s3", NewS3())
	return m
}

// Handle registers f for scheme, replacing any previous registration.
func (m *Mux) Handle(scheme string, f Fetcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchers[strings.ToLower(scheme)] = f
}

// Fetch implements Fetcher.
func (m *Mux) Fetch(ctx context.Context, rawURL string, w io.Writer) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid source URL",
			map[string]interface{}{"url": rawURL})
	}

	m.mu.RLock()
	f, ok := m.fetchers[strings.ToLower(u.Scheme)]
	m.mu.RUnlock()
	if !ok {
		return errors.NewWithContext(errors.CodeInvalidInput, "unsupported source scheme",
			map[string]interface{}{"scheme": u.Scheme, "url": rawURL})
	}

	return f.Fetch(ctx, rawURL, w)
}
