// Package renderer obtains a page's HTML via the cheapest method that yields
// a complete document: a plain GET first, with a headless-browser fallback
// when the static body looks like an unrendered client-side shell.
package renderer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/goclone/internal/logger"
)

// maxDocumentBytes limits the size of a statically fetched page.
const maxDocumentBytes = 10 * 1024 * 1024 // 10 MB

// Mode records which retrieval path produced the document.
type Mode string

const (
	// ModeStatic means the plain GET body was used as-is.
	ModeStatic Mode = "static"
	// ModeDynamic means the document came from a headless render.
	ModeDynamic Mode = "dynamic"
)

// Document is a page's HTML together with the mode that produced it.
// It is immutable once handed to the rewriter.
type Document struct {
	HTML string
	Mode Mode
}

// DOMCapturer captures the fully materialized DOM of a page. The production
// implementation drives a headless browser; tests substitute a fake.
type DOMCapturer interface {
	CaptureDOM(ctx context.Context, url string) (string, error)
}

// Selector picks between the static and headless retrieval paths.
type Selector struct {
	httpClient *http.Client
	policy     FallbackPolicy
	capturer   DOMCapturer
	userAgent  string
	log        logger.Interface
}

// NewSelector creates a renderer selector. policy decides when the static
// body is insufficient; capturer provides the headless fallback.
func NewSelector(
	staticTimeout time.Duration,
	userAgent string,
	policy FallbackPolicy,
	capturer DOMCapturer,
	log logger.Interface,
) *Selector {
	return &Selector{
		httpClient: &http.Client{Timeout: staticTimeout},
		policy:     policy,
		capturer:   capturer,
		userAgent:  userAgent,
		log:        log,
	}
}

// Render retrieves url. The static body is returned when the fallback policy
// accepts it; otherwise the headless path runs. The policy is a best-effort
// classifier: small static pages may render unnecessarily and large dynamic
// shells may slip through, which the Mode field surfaces to the caller.
func (s *Selector) Render(ctx context.Context, url string) (*Document, error) {
	body, staticErr := s.fetchStatic(ctx, url)
	if staticErr == nil && !s.policy.ShouldFallback(body) {
		return &Document{HTML: string(body), Mode: ModeStatic}, nil
	}

	if staticErr != nil {
		s.log.Warn("static fetch failed, falling back to headless render",
			"url", url, "error", staticErr)
	} else {
		s.log.Debug("static body insufficient, falling back to headless render",
			"url", url, "bytes", len(body))
	}

	html, renderErr := s.capturer.CaptureDOM(ctx, url)
	if renderErr == nil {
		return &Document{HTML: html, Mode: ModeDynamic}, nil
	}

	// A static body exists but looked insufficient; better a shallow clone
	// than none when the browser path is unavailable.
	if staticErr == nil {
		s.log.Warn("headless render failed, using static body",
			"url", url, "error", renderErr)
		return &Document{HTML: string(body), Mode: ModeStatic}, nil
	}

	return nil, fmt.Errorf("static fetch failed (%w) and headless render failed: %w", staticErr, renderErr)
}

// fetchStatic performs the plain GET of the target page.
func (s *Selector) fetchStatic(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return body, nil
}
