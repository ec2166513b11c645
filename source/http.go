package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
)

// HTTP fetches http(s) URLs.
type HTTP struct {
	client *http.Client
	logger *slog.Logger
}

// HTTPOption configures an HTTP fetcher.
type HTTPOption func(*HTTP)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = c
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = logger
	}
}

// NewHTTP returns an HTTP fetcher using http.DefaultClient.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{client: http.DefaultClient}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fetch implements Fetcher. Redirects are followed; any final status outside
// 2xx is an error.
func (h *HTTP) Fetch(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidInput, "failed to build request",
			map[string]interface{}{"url": rawURL})
	}

	if h.logger != nil {
		h.logger.DebugContext(ctx, "downloading", "url", rawURL)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeNetwork, "download failed",
			map[string]interface{}{"url": rawURL})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewWithContext(errors.CodeNetwork, "unexpected HTTP status",
			map[string]interface{}{"url": rawURL, "status": resp.StatusCode})
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeNetwork, "download interrupted",
			map[string]interface{}{"url": rawURL})
	}

	if h.logger != nil {
		h.logger.DebugContext(ctx, "download complete", "url", rawURL, "bytes", n)
	}
	return nil
}
