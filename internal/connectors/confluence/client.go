package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.WikiClient = (*Client)(nil)
	_ driven.PageFinder = (*Client)(nil)
)

const (
	pathContent = "/rest/api/content"
	pathSearch  = "/rest/api/search"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Client talks to one Confluence site.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	log         *logger.Logger
}

// NewClient creates a client for cfg.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:     siteURL(cfg.BaseURL),
		httpClient:  newHTTPClient(cfg),
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
		log:         log,
	}, nil
}

// Wire types for the REST v1 API.
type (
	contentList struct {
		Results []contentSummary `json:"results"`
		Start   int              `json:"start"`
		Limit   int              `json:"limit"`
		Size    int              `json:"size"`
	}

	contentSummary struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title"`
	}

	content struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Space struct {
			Key string `json:"key"`
		} `json:"space"`
		Body struct {
			Storage struct {
				Value string `json:"value"`
			} `json:"storage"`
		} `json:"body"`
		Version struct {
			Number int    `json:"number"`
			When   string `json:"when"`
			By     struct {
				AccountID   string `json:"accountId"`
				DisplayName string `json:"displayName"`
			} `json:"by"`
		} `json:"version"`
	}

	searchResult struct {
		TotalSize int `json:"totalSize"`
	}

	errorBody struct {
		Message string `json:"message"`
	}
)

// ListPages returns up to limit pages of spaceKey starting at start.
func (c *Client) ListPages(ctx context.Context, spaceKey string, start, limit int) ([]domain.PageSummary, error) {
	q := url.Values{}
	q.Set("spaceKey", spaceKey)
	q.Set("type", "page")
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))

	var list contentList
	if err := c.get(ctx, pathContent, q, &list); err != nil {
		return nil, fmt.Errorf("list pages in %s: %w", spaceKey, err)
	}
	return summaries(list.Results), nil
}

// GetPage fetches a page with its storage-format body and version.
func (c *Client) GetPage(ctx context.Context, id string) (*domain.RemotePage, error) {
	q := url.Values{}
	q.Set("expand", "body.storage,version,space")

	var ct content
	if err := c.get(ctx, pathContent+"/"+url.PathEscape(id), q, &ct); err != nil {
		return nil, fmt.Errorf("get page %s: %w", id, err)
	}
	return &domain.RemotePage{
		ID:       ct.ID,
		Title:    ct.Title,
		SpaceKey: ct.Space.Key,
		Body:     ct.Body.Storage.Value,
		Version: domain.PageVersion{
			Number:     ct.Version.Number,
			AuthorID:   ct.Version.By.AccountID,
			AuthorName: ct.Version.By.DisplayName,
			When:       ct.Version.When,
		},
	}, nil
}

// CountPages returns the number of pages in spaceKey using a CQL search.
func (c *Client) CountPages(ctx context.Context, spaceKey string) (int, error) {
	q := url.Values{}
	q.Set("cql", fmt.Sprintf(`space = %s AND type = "page"`, strconv.Quote(spaceKey)))
	q.Set("limit", "1")

	var res searchResult
	if err := c.get(ctx, pathSearch, q, &res); err != nil {
		return 0, fmt.Errorf("count pages in %s: %w", spaceKey, err)
	}
	return res.TotalSize, nil
}

// FindPage looks up a page by exact title.
func (c *Client) FindPage(ctx context.Context, spaceKey, title string) (*domain.PageSummary, error) {
	q := url.Values{}
	q.Set("spaceKey", spaceKey)
	q.Set("title", title)
	q.Set("type", "page")

	var list contentList
	if err := c.get(ctx, pathContent, q, &list); err != nil {
		return nil, fmt.Errorf("find page %q in %s: %w", title, spaceKey, err)
	}
	if len(list.Results) == 0 {
		return nil, fmt.Errorf("page %q in %s: %w", title, spaceKey, domain.ErrNotFound)
	}
	found := summaries(list.Results[:1])[0]
	return &found, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("GET %s", u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := CheckRateLimit(resp); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, u)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func newAPIError(resp *http.Response, u string) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := http.StatusText(resp.StatusCode)
	var body errorBody
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg, URL: u}
}

func summaries(results []contentSummary) []domain.PageSummary {
	out := make([]domain.PageSummary, 0, len(results))
	for _, r := range results {
		out = append(out, domain.PageSummary{ID: r.ID, Title: r.Title})
	}
	return out
}
