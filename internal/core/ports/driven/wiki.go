package driven

import (
	"context"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// WikiClient is the remote page source.
// Implementations return *domain.RateLimitError when the remote signals
// rate limiting, and errors wrapping domain.ErrNotFound or
// domain.ErrForbidden for missing or inaccessible content.
type WikiClient interface {
	// ListPages returns up to limit page summaries starting at start.
	// An empty slice means the listing is exhausted.
	ListPages(ctx context.Context, spaceKey string, start, limit int) ([]domain.PageSummary, error)

	// GetPage fetches a page's storage-format body and version metadata.
	GetPage(ctx context.Context, id string) (*domain.RemotePage, error)

	// CountPages returns the total number of pages in a space.
	// Used for progress display only.
	CountPages(ctx context.Context, spaceKey string) (int, error)
}

// PageFinder resolves a page title within a space.
type PageFinder interface {
	// FindPage returns the summary of the page titled title, or an error
	// wrapping domain.ErrNotFound.
	FindPage(ctx context.Context, spaceKey, title string) (*domain.PageSummary, error)
}
