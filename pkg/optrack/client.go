// Package optrack provides a Go client for the optrack-server dashboard API.
package optrack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"optrack/internal/httpapi"
)

// Client talks to a running optrack-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// View retrieves the full dashboard payload. An empty underlying selects the
// whole-portfolio view.
func (c *Client) View(ctx context.Context, underlying string) (httpapi.ViewResponse, error) {
	path := "/api/view"
	if underlying != "" {
		path += "?underlying=" + url.QueryEscape(underlying)
	}
	var out httpapi.ViewResponse
	err := c.get(ctx, path, &out)
	return out, err
}

// Series retrieves the whole-portfolio chart series.
func (c *Client) Series(ctx context.Context) (httpapi.SeriesResponse, error) {
	var out httpapi.SeriesResponse
	err := c.get(ctx, "/api/series", &out)
	return out, err
}

// SeriesFor retrieves the chart series for one underlying.
func (c *Client) SeriesFor(ctx context.Context, underlying string) (httpapi.SeriesResponse, error) {
	var out httpapi.SeriesResponse
	err := c.get(ctx, "/api/series/"+url.PathEscape(underlying), &out)
	return out, err
}

// Summary retrieves the headline figures for the whole portfolio.
func (c *Client) Summary(ctx context.Context) (httpapi.StatsJSON, error) {
	var out httpapi.StatsJSON
	err := c.get(ctx, "/api/summary", &out)
	return out, err
}

// LatestPositions retrieves the latest-snapshot table rows.
func (c *Client) LatestPositions(ctx context.Context) ([]httpapi.PositionJSON, error) {
	var out []httpapi.PositionJSON
	err := c.get(ctx, "/api/positions/latest", &out)
	return out, err
}

// Underlyings retrieves the distinct underlying symbols present in the logs.
func (c *Client) Underlyings(ctx context.Context) ([]string, error) {
	var out httpapi.UnderlyingsResponse
	if err := c.get(ctx, "/api/underlyings", &out); err != nil {
		return nil, err
	}
	return out.Underlyings, nil
}

// LastRun retrieves the fetch step's last-run marker.
func (c *Client) LastRun(ctx context.Context) (httpapi.LastRunResponse, error) {
	var out httpapi.LastRunResponse
	err := c.get(ctx, "/api/lastrun", &out)
	return out, err
}

// Reload asks the server to re-read the snapshot logs from disk.
func (c *Client) Reload(ctx context.Context) (httpapi.ReloadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/reload", nil)
	if err != nil {
		return httpapi.ReloadResponse{}, err
	}
	var out httpapi.ReloadResponse
	err = c.do(req, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}
