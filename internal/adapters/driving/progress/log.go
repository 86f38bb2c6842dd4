package progress

import (
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Log records progress events in the run log.
type Log struct {
	log *logger.Logger
}

var _ driven.ProgressReporter = Log{}

// NewLog creates a reporter writing to log.
func NewLog(log *logger.Logger) Log {
	return Log{log: log}
}

func (l Log) SpaceStarted(spaceKey string, totalBatches int) {
	if totalBatches > 0 {
		l.log.Info("space %s: %d batches expected", spaceKey, totalBatches)
		return
	}
	l.log.Info("space %s: size unknown", spaceKey)
}

func (l Log) BatchStarted(spaceKey string, batch, pages int) {
	l.log.Info("space %s: batch %d with %d pages", spaceKey, batch, pages)
}

func (l Log) PageProcessed(spaceKey, title string, changed bool) {
	if changed {
		l.log.Debug("space %s: wrote %q", spaceKey, title)
		return
	}
	l.log.Debug("space %s: %q unchanged", spaceKey, title)
}

func (l Log) RateLimited(spaceKey string, wait time.Duration, attempt int) {
	l.log.Warn("space %s: rate limited, waiting %s (attempt %d)", spaceKey, wait, attempt)
}

func (l Log) SpaceFinished(r domain.SpaceResult) {
	l.log.Info("%s", summaryLine(r))
}
