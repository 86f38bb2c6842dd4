package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/core/ports/driving"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Ensure PageService implements the interface.
var _ driving.PageFetcher = (*PageService)(nil)

// PageService renders single pages looked up by title.
type PageService struct {
	finder    driven.PageFinder
	client    driven.WikiClient
	converter driven.Converter
	outputDir string
	log       *logger.Logger
}

// NewPageService creates a PageService writing paths below outputDir.
func NewPageService(
	finder driven.PageFinder,
	client driven.WikiClient,
	converter driven.Converter,
	outputDir string,
	log *logger.Logger,
) *PageService {
	return &PageService{
		finder:    finder,
		client:    client,
		converter: converter,
		outputDir: outputDir,
		log:       log,
	}
}

// FetchPage looks up title in spaceKey and renders it. The document path
// is where a full export would place it.
func (s *PageService) FetchPage(ctx context.Context, spaceKey, title string) (*domain.RenderedDocument, error) {
	summary, err := s.finder.FindPage(ctx, spaceKey, title)
	if err != nil {
		return nil, fmt.Errorf("find page %q in %s: %w", title, spaceKey, err)
	}

	page, err := s.client.GetPage(ctx, summary.ID)
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", summary.ID, err)
	}

	doc, err := renderPage(s.converter, filepath.Join(s.outputDir, spaceKey), page)
	if err != nil {
		return nil, fmt.Errorf("render page %q: %w", title, err)
	}
	s.log.Info("Rendered page '%s' (ID: %s) from %s.", title, summary.ID, spaceKey)
	return &doc, nil
}
