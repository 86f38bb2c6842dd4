package driving

import (
	"context"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// Exporter mirrors remote spaces into the local repository.
type Exporter interface {
	// Run exports every space and commits once if anything changed.
	// The returned error is non-nil only for fatal conditions
	// (domain.ErrRetriesExhausted or context cancellation); the result
	// is still populated with the spaces processed so far.
	Run(ctx context.Context, spaceKeys []string) (domain.RunResult, error)
}

// PageFetcher retrieves and renders a single page on demand.
type PageFetcher interface {
	// FetchPage renders the page titled title in spaceKey and returns the
	// rendered document without writing it.
	FetchPage(ctx context.Context, spaceKey, title string) (*domain.RenderedDocument, error)
}
