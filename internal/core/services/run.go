package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/core/ports/driving"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Ensure RunOrchestrator implements the interface.
var _ driving.Exporter = (*RunOrchestrator)(nil)

// CommitTimeLayout formats the local time in snapshot commit messages.
const CommitTimeLayout = "2006-01-02 15:04:05"

// spaceExporter exports a single space.
type spaceExporter interface {
	Export(ctx context.Context, spaceKey string) (domain.SpaceResult, error)
}

// RunOrchestrator exports spaces one after another and commits once.
type RunOrchestrator struct {
	exporter spaceExporter
	repo     driven.Repository
	log      *logger.Logger
	now      func() time.Time
}

// NewRunOrchestrator creates a RunOrchestrator.
func NewRunOrchestrator(exporter spaceExporter, repo driven.Repository, log *logger.Logger) *RunOrchestrator {
	return &RunOrchestrator{
		exporter: exporter,
		repo:     repo,
		log:      log,
		now:      time.Now,
	}
}

// CommitMessage returns the snapshot commit message for t.
func CommitMessage(t time.Time) string {
	return "Updated " + t.Format(CommitTimeLayout)
}

// Run exports spaceKeys in order. Repository failures are logged and never
// abort the run. A fatal export error stops the run before committing.
func (o *RunOrchestrator) Run(ctx context.Context, spaceKeys []string) (domain.RunResult, error) {
	result := domain.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
	}

	o.log.Section("Run " + result.RunID)
	o.log.Info("Now running export @ %s for spaces %v", result.StartedAt.Format(time.RFC3339), spaceKeys)

	if err := o.repo.Ensure(ctx); err != nil {
		o.log.Error("Failed to prepare repository: %v", err)
	}

	for _, key := range spaceKeys {
		space, err := o.exporter.Export(ctx, key)
		result.Spaces = append(result.Spaces, space)
		if err != nil {
			o.log.Error("Error occurred while exporting pages from Confluence: %v", err)
			result.FinishedAt = o.now()
			return result, fmt.Errorf("export space %s: %w", key, err)
		}
		o.log.Info("Space '%s': %d batches, %d pages visited, %d written, %d failed, partial=%t",
			key, space.Batches, space.PagesVisited, space.PagesWritten, space.PagesFailed, space.Partial)
	}

	if !result.Changed() {
		o.log.Info("No changes to commit.")
		result.FinishedAt = o.now()
		return result, nil
	}

	msg := CommitMessage(o.now())
	if err := o.repo.Commit(ctx, msg); err != nil {
		o.log.Error("Commit failed: %v", err)
	} else {
		result.Committed = true
		o.log.Info("Successfully committed changes with message: %s", msg)
	}
	result.FinishedAt = o.now()
	return result, nil
}
