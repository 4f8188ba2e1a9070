// Package fetch retrieves career pages and prepares their content for the
// extraction strategies.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"context"

	"go.uber.org/zap"

	"github.com/vtrofin/jobsift/internal/extract"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "jobsift/1.0 (+https://github.com/vtrofin/jobsift)"
)

// Client fetches pages over HTTP.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

// New creates a Client. A non-positive timeout falls back to the default.
func New(timeout time.Duration, userAgent string, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch retrieves the raw HTML of the given URL.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	c.logger.Debug("fetching page", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	return string(body), nil
}

// Page fetches a URL and builds the content views the extraction strategies
// consume: raw HTML, stripped main text and a Markdown rendering.
func (c *Client) Page(ctx context.Context, url string) (*extract.Page, error) {
	html, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	fragment := MainContent(html)
	page := &extract.Page{
		URL:  url,
		HTML: html,
		Text: FlattenText(fragment),
	}

	markdown, err := Markdown(fragment)
	if err != nil {
		// markdown is a nicety for the generative prompt; plain text still works
		c.logger.Warn("markdown conversion failed", zap.String("url", url), zap.Error(err))
		markdown = page.Text
	}
	page.Markdown = markdown

	return page, nil
}
