package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"modelwatch/internal/errors"
	"modelwatch/internal/logging"
)

// Client fetches the model listing from the catalog API
type Client struct {
	url    string
	client *http.Client
	logger *logging.Logger
}

// NewClient creates a catalog client for the given listing URL
func NewClient(url string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch retrieves the complete catalog. Any failure is a FETCH_ERROR:
// callers get either a full catalog or none at all, never a partial one.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Newf(errors.FetchError, err, "invalid catalog URL %q", c.url)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.New(errors.FetchError, "catalog request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errors.FetchError,
			fmt.Sprintf("catalog returned HTTP %d", resp.StatusCode), nil)
	}

	// UseNumber keeps price amounts textual until normalization
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var entries []Entry
	if err := decoder.Decode(&entries); err != nil {
		return nil, errors.New(errors.FetchError, "malformed catalog response", err)
	}

	c.logger.Debug("Fetched catalog", map[string]interface{}{
		"url":        c.url,
		"entries":    len(entries),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return entries, nil
}
