package driven

import (
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// ProgressReporter receives progress events from a run.
// Implementations must not block for long; the run is sequential.
type ProgressReporter interface {
	// SpaceStarted is called before the first batch. totalBatches is zero
	// when the size of the space is unknown.
	SpaceStarted(spaceKey string, totalBatches int)

	// BatchStarted is called after a batch was fetched.
	BatchStarted(spaceKey string, batch, pages int)

	// PageProcessed is called once per page in a batch, including skipped pages.
	PageProcessed(spaceKey, title string, changed bool)

	// RateLimited is called before sleeping during backoff.
	RateLimited(spaceKey string, wait time.Duration, attempt int)

	// SpaceFinished is called when the walk of a space ends.
	SpaceFinished(result domain.SpaceResult)
}

// NopProgress discards all progress events.
type NopProgress struct{}

func (NopProgress) SpaceStarted(string, int) {}
func (NopProgress) BatchStarted(string, int, int) {}
func (NopProgress) PageProcessed(string, string, bool) {}
func (NopProgress) RateLimited(string, time.Duration, int) {}
func (NopProgress) SpaceFinished(domain.SpaceResult) {}
