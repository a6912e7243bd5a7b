package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftnotes/internal/models"
)

// HTTPClient implements DataSource by calling the LiftNotes REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// QueryDays fetches GET /api/v1/days. The user is decided by the server.
func (c *HTTPClient) QueryDays(ctx context.Context, _ int, movement string, limit int) ([]models.WorkoutDay, error) {
	params := url.Values{}
	if movement != "" {
		params.Set("movement", movement)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/days", params)
	if err != nil {
		return nil, err
	}

	var days []models.WorkoutDay
	if err := json.Unmarshal(body, &days); err != nil {
		return nil, fmt.Errorf("httpclient: decode days: %w", err)
	}
	return days, nil
}

func (c *HTTPClient) ListGoals(ctx context.Context, _ int) ([]models.Goal, error) {
	body, err := c.get(ctx, "/api/v1/goals", nil)
	if err != nil {
		return nil, err
	}

	var gs []models.Goal
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("httpclient: decode goals: %w", err)
	}
	return gs, nil
}

func (c *HTTPClient) ListJournals(ctx context.Context, _ int, limit int) ([]models.JournalRow, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/journals", params)
	if err != nil {
		return nil, err
	}

	var journals []models.JournalRow
	if err := json.Unmarshal(body, &journals); err != nil {
		return nil, fmt.Errorf("httpclient: decode journals: %w", err)
	}
	return journals, nil
}
