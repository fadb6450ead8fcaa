// Package fetcher retrieves individual remote assets and persists them under
// a clone folder. A failed asset is an expected condition: callers log it and
// move on rather than aborting the clone.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxAssetBytes limits the size of a single fetched asset.
const maxAssetBytes = 50 * 1024 * 1024 // 50 MB

// dirPerm and filePerm are the permissions for created directories and files.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Client fetches remote assets over HTTP(S).
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates an asset fetch client with the given per-request timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Fetch retrieves rawURL and returns the response body. Non-2xx statuses are
// errors; the caller decides whether they are fatal.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}

	return data, nil
}

// Save writes data to dest, creating parent directories as needed. Directory
// creation is idempotent, so concurrent saves into the same subtree are safe.
func Save(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
