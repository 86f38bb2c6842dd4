package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// listCall records one ListPages invocation.
type listCall struct {
	space string
	start int
	limit int
}

// scriptedClient serves fixed batches per space. onList, when set, may
// fail a listing call before the batch is served; n is the 1-based call
// count.
type scriptedClient struct {
	mu       sync.Mutex
	batches  map[string][][]domain.PageSummary
	pages    map[string]*domain.RemotePage
	pageErrs map[string]error
	onList   func(n int, call listCall) error
	calls    []listCall
	total    int
	countErr error
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		batches:  make(map[string][][]domain.PageSummary),
		pages:    make(map[string]*domain.RemotePage),
		pageErrs: make(map[string]error),
	}
}

// addBatch appends a batch of pages to space and registers their bodies.
func (c *scriptedClient) addBatch(space string, pages ...*domain.RemotePage) {
	batch := make([]domain.PageSummary, 0, len(pages))
	for _, p := range pages {
		p.SpaceKey = space
		c.pages[p.ID] = p
		batch = append(batch, domain.PageSummary{ID: p.ID, Title: p.Title})
	}
	c.batches[space] = append(c.batches[space], batch)
}

func (c *scriptedClient) ListPages(_ context.Context, space string, start, limit int) ([]domain.PageSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	call := listCall{space: space, start: start, limit: limit}
	c.calls = append(c.calls, call)
	if c.onList != nil {
		if err := c.onList(len(c.calls), call); err != nil {
			return nil, err
		}
	}
	idx := start / limit
	if idx >= len(c.batches[space]) {
		return nil, nil
	}
	return c.batches[space][idx], nil
}

func (c *scriptedClient) GetPage(_ context.Context, id string) (*domain.RemotePage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.pageErrs[id]; ok {
		return nil, err
	}
	p, ok := c.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (c *scriptedClient) CountPages(_ context.Context, _ string) (int, error) {
	return c.total, c.countErr
}

func (c *scriptedClient) FindPage(_ context.Context, space, title string) (*domain.PageSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, batch := range c.batches[space] {
		for _, s := range batch {
			if s.Title == title {
				found := s
				return &found, nil
			}
		}
	}
	return nil, fmt.Errorf("page %q: %w", title, domain.ErrNotFound)
}

func (c *scriptedClient) offsets() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.calls))
	for _, call := range c.calls {
		out = append(out, call.start)
	}
	return out
}

// recordingSleeper records requested waits without sleeping.
type recordingSleeper struct {
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

// echoConverter returns the body unchanged unless it equals failBody.
type echoConverter struct {
	failBody string
}

func (c echoConverter) Convert(body string) (string, error) {
	if c.failBody != "" && body == c.failBody {
		return "", fmt.Errorf("bad body: %w", domain.ErrInvalidInput)
	}
	return body, nil
}

// recordingProgress records progress events as strings.
type recordingProgress struct {
	events []string
}

func (p *recordingProgress) SpaceStarted(space string, total int) {
	p.events = append(p.events, fmt.Sprintf("space %s total=%d", space, total))
}

func (p *recordingProgress) BatchStarted(space string, batch, pages int) {
	p.events = append(p.events, fmt.Sprintf("batch %s #%d pages=%d", space, batch, pages))
}

func (p *recordingProgress) PageProcessed(space, title string, changed bool) {
	p.events = append(p.events, fmt.Sprintf("page %s %s changed=%t", space, title, changed))
}

func (p *recordingProgress) RateLimited(space string, wait time.Duration, attempt int) {
	p.events = append(p.events, fmt.Sprintf("ratelimit %s wait=%s attempt=%d", space, wait, attempt))
}

func (p *recordingProgress) SpaceFinished(r domain.SpaceResult) {
	p.events = append(p.events, fmt.Sprintf("done %s written=%d", r.SpaceKey, r.PagesWritten))
}

func newPage(id, title, body string) *domain.RemotePage {
	return &domain.RemotePage{
		ID:    id,
		Title: title,
		Body:  body,
		Version: domain.PageVersion{
			Number:     1,
			AuthorID:   "acc-1",
			AuthorName: "Ada",
			When:       "2024-03-01T10:00:00.000Z",
		},
	}
}

func rateLimited(after *time.Duration) error {
	return fmt.Errorf("list pages: %w", &domain.RateLimitError{StatusCode: 429, RetryAfter: after})
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
