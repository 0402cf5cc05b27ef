// Package api talks to the Anthropic admin API for session listings.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	sessionsPath     = "/v1/sessions"
	anthropicVersion = "2023-06-01"
)

// Session is one entry in the organization's session listing.
type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SessionPage is one page of the listing. LastID feeds the after_id cursor
// of the next request.
type SessionPage struct {
	Data    []Session `json:"data"`
	HasMore bool      `json:"has_more"`
	FirstID string    `json:"first_id"`
	LastID  string    `json:"last_id"`
}

// Client is an admin API client scoped to one organization.
type Client struct {
	token      string
	orgID      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client authenticated with an admin token.
func NewClient(token, orgID string) *Client {
	return &Client{
		token:   token,
		orgID:   orgID,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// headers returns the header set every admin API request carries.
func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization":       "Bearer " + c.token,
		"anthropic-version":   anthropicVersion,
		"Content-Type":        "application/json",
		"x-organization-uuid": c.orgID,
	}
}

// ListSessions fetches the full session listing, following the has_more /
// after_id cursor until the API reports no further pages. A missing
// has_more field ends pagination. limit <= 0 leaves the page size to the
// server.
func (c *Client) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	var sessions []Session
	afterID := ""

	for {
		page, err := c.fetchPage(ctx, limit, afterID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, page.Data...)
		if !page.HasMore {
			return sessions, nil
		}
		afterID = page.LastID
	}
}

// FetchPage retrieves a single page without following the cursor. Useful
// for inspecting the raw pagination fields.
func (c *Client) FetchPage(ctx context.Context, limit int) (*SessionPage, error) {
	return c.fetchPage(ctx, limit, "")
}

func (c *Client) fetchPage(ctx context.Context, limit int, afterID string) (*SessionPage, error) {
	u, err := url.Parse(c.baseURL + sessionsPath)
	if err != nil {
		return nil, fmt.Errorf("parse sessions url: %w", err)
	}
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if afterID != "" {
		params.Set("after_id", afterID)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for name, value := range c.headers() {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list sessions: status %d: %s", resp.StatusCode, body)
	}

	var page SessionPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode sessions response: %w", err)
	}
	return &page, nil
}
