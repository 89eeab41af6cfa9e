package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultUserAgent    = "catalog-etl/1.0 (+media-verifier)"
)

// Prober checks whether a URL serves an image. A nil error means it does.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

type HTTPProber struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

func NewHTTPProber(timeout time.Duration, userAgent string) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPProber{
		client:    &http.Client{},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// Probe issues a HEAD request and falls back to GET when the host does not
// support HEAD. Success requires a 2xx status and an image/* content type.
func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.do(timeoutCtx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp.Body.Close()
		if resp, err = p.do(timeoutCtx, http.MethodGet, url); err != nil {
			return err
		}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return fmt.Errorf("content type is not an image: %s", contentType)
	}

	return nil
}

func (p *HTTPProber) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	return resp, nil
}
