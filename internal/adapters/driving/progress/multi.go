package progress

import (
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
)

// Multi forwards every event to each reporter in order.
type Multi []driven.ProgressReporter

var _ driven.ProgressReporter = Multi(nil)

func (m Multi) SpaceStarted(spaceKey string, totalBatches int) {
	for _, r := range m {
		r.SpaceStarted(spaceKey, totalBatches)
	}
}

func (m Multi) BatchStarted(spaceKey string, batch, pages int) {
	for _, r := range m {
		r.BatchStarted(spaceKey, batch, pages)
	}
}

func (m Multi) PageProcessed(spaceKey, title string, changed bool) {
	for _, r := range m {
		r.PageProcessed(spaceKey, title, changed)
	}
}

func (m Multi) RateLimited(spaceKey string, wait time.Duration, attempt int) {
	for _, r := range m {
		r.RateLimited(spaceKey, wait, attempt)
	}
}

func (m Multi) SpaceFinished(result domain.SpaceResult) {
	for _, r := range m {
		r.SpaceFinished(result)
	}
}
