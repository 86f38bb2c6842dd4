package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// ExportConfig holds the settings of one space walk.
type ExportConfig struct {
	// OutputDir is the repository root. Each space gets a subdirectory.
	OutputDir string

	// BatchSize is the number of page summaries requested per listing call.
	BatchSize int

	// MaxRetries is the number of consecutive rate-limited listing calls
	// after which the run is aborted.
	MaxRetries int
}

// ExporterOption configures a SpaceExporter.
type ExporterOption func(*SpaceExporter)

// WithSleeper replaces the backoff sleeper.
func WithSleeper(s driven.Sleeper) ExporterOption {
	return func(e *SpaceExporter) {
		e.sleeper = s
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p driven.ProgressReporter) ExporterOption {
	return func(e *SpaceExporter) {
		e.progress = p
	}
}

// SpaceExporter walks one space batch by batch and mirrors every page.
type SpaceExporter struct {
	client    driven.WikiClient
	converter driven.Converter
	writer    driven.DocumentWriter
	repo      driven.Repository
	sleeper   driven.Sleeper
	progress  driven.ProgressReporter
	log       *logger.Logger
	cfg       ExportConfig
}

// NewSpaceExporter creates a SpaceExporter.
func NewSpaceExporter(
	client driven.WikiClient,
	converter driven.Converter,
	writer driven.DocumentWriter,
	repo driven.Repository,
	log *logger.Logger,
	cfg ExportConfig,
	opts ...ExporterOption,
) *SpaceExporter {
	e := &SpaceExporter{
		client:    client,
		converter: converter,
		writer:    writer,
		repo:      repo,
		sleeper:   driven.TimerSleeper{},
		progress:  driven.NopProgress{},
		log:       log,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export mirrors every page of spaceKey into OutputDir/spaceKey.
//
// Page-level failures are logged and skipped. A failed listing call that
// is not rate limiting stops the space and marks the result partial. The
// returned error is non-nil only when rate limiting outlasted MaxRetries
// (wrapping domain.ErrRetriesExhausted) or ctx was cancelled.
func (e *SpaceExporter) Export(ctx context.Context, spaceKey string) (domain.SpaceResult, error) {
	result := domain.SpaceResult{SpaceKey: spaceKey}
	cursor := domain.NewRetrievalCursor(spaceKey, e.cfg.BatchSize)
	dir := filepath.Join(e.cfg.OutputDir, spaceKey)

	e.log.Section(fmt.Sprintf("Space %s", spaceKey))
	e.log.Info("Pages per batch: %d, max retries: %d", e.cfg.BatchSize, e.cfg.MaxRetries)
	e.progress.SpaceStarted(spaceKey, e.totalBatches(ctx, spaceKey))
	defer func() { e.progress.SpaceFinished(result) }()

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.log.Info("Pulling next batch of %d at offset %d...", cursor.BatchSize, cursor.Offset)
		pages, err := e.client.ListPages(ctx, spaceKey, cursor.Offset, cursor.BatchSize)
		if err != nil {
			if rl, ok := domain.AsRateLimit(err); ok {
				if err := e.backoff(ctx, cursor, rl); err != nil {
					return result, err
				}
				continue
			}
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			e.log.Error("Error fetching pages from space '%s': %v", spaceKey, err)
			result.Partial = true
			return result, nil
		}
		cursor.ResetRetries()

		if len(pages) == 0 {
			e.log.Info("All reachable pages in '%s' have been obtained.", spaceKey)
			return result, nil
		}

		result.Batches++
		e.progress.BatchStarted(spaceKey, cursor.Batch(), len(pages))
		for _, summary := range pages {
			e.processPage(ctx, dir, summary, &result)
		}
		cursor.Advance()
	}
}

// backoff waits out a rate-limited listing call. It returns an error when
// the retry ceiling is reached or ctx ends during the wait.
func (e *SpaceExporter) backoff(ctx context.Context, cursor *domain.RetrievalCursor, rl *domain.RateLimitError) error {
	wait := rl.Wait()
	e.progress.RateLimited(cursor.SpaceKey, wait, cursor.Retries+1)
	if err := e.sleeper.Sleep(ctx, wait); err != nil {
		return err
	}

	retries := cursor.RecordRetry()
	e.log.Warn("Rate limited while listing '%s' at offset %d (retry %d of %d, waited %s).",
		cursor.SpaceKey, cursor.Offset, retries, e.cfg.MaxRetries, wait)
	if retries >= e.cfg.MaxRetries {
		e.log.Error("Aborting due to repeated rate-limit errors in rapid succession.")
		return fmt.Errorf("space %s at offset %d: %w", cursor.SpaceKey, cursor.Offset, domain.ErrRetriesExhausted)
	}
	return nil
}

func (e *SpaceExporter) processPage(ctx context.Context, dir string, summary domain.PageSummary, result *domain.SpaceResult) {
	result.PagesVisited++
	changed := false
	defer func() { e.progress.PageProcessed(result.SpaceKey, summary.Title, changed) }()

	e.log.Info("Processing page: '%s' (ID: %s)", summary.Title, summary.ID)
	page, err := e.client.GetPage(ctx, summary.ID)
	if err != nil {
		result.PagesFailed++
		e.log.Warn("Failed to retrieve page '%s': %v", summary.Title, err)
		return
	}

	doc, err := renderPage(e.converter, dir, page)
	if err != nil {
		result.PagesFailed++
		e.log.Warn("Failed to convert page '%s': %v", summary.Title, err)
		return
	}

	if !e.writer.WriteIfChanged(doc.Path, []byte(doc.Content)) {
		e.log.Debug("Skipping staging for '%s'; no changes were written.", doc.Path)
		return
	}
	changed = true
	result.Changed = true
	result.PagesWritten++

	if err := e.repo.Stage(ctx, doc.Path); err != nil {
		e.log.Error("Staging failed for '%s': %v", doc.Path, err)
		return
	}
	e.log.Info("Staged '%s'.", doc.Path)
}

// totalBatches sizes the progress display. Zero means unknown.
func (e *SpaceExporter) totalBatches(ctx context.Context, spaceKey string) int {
	total, err := e.client.CountPages(ctx, spaceKey)
	if err != nil {
		e.log.Error("Failed to retrieve total page count for '%s': %v", spaceKey, err)
		return 0
	}
	if e.cfg.BatchSize <= 0 {
		return 0
	}
	return (total + e.cfg.BatchSize - 1) / e.cfg.BatchSize
}

// renderPage builds the document written for page inside dir.
func renderPage(conv driven.Converter, dir string, page *domain.RemotePage) (domain.RenderedDocument, error) {
	body, err := conv.Convert(page.Body)
	if err != nil {
		return domain.RenderedDocument{}, fmt.Errorf("convert: %w", err)
	}
	path := filepath.Join(dir, domain.DocumentFileName(page.Title))
	return domain.NewRenderedDocument(path, page.Version, body), nil
}
