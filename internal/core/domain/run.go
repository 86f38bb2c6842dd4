package domain

import "time"

// SpaceResult summarises the export of one space.
type SpaceResult struct {
	SpaceKey string

	// Changed is true when at least one file was written.
	Changed bool

	// Partial is true when a batch fetch failed and the walk stopped early.
	Partial bool

	Batches      int
	PagesVisited int
	PagesWritten int
	PagesFailed  int
}

// RunResult aggregates one run across all configured spaces.
type RunResult struct {
	// RunID identifies the run in log output.
	RunID string

	Spaces []SpaceResult

	// Committed is true when a snapshot commit was created.
	Committed bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Changed reports whether any space wrote at least one file.
func (r RunResult) Changed() bool {
	for _, s := range r.Spaces {
		if s.Changed {
			return true
		}
	}
	return false
}

// PagesWritten totals written pages across spaces.
func (r RunResult) PagesWritten() int {
	n := 0
	for _, s := range r.Spaces {
		n += s.PagesWritten
	}
	return n
}

// Partial reports whether any space stopped before its last batch.
func (r RunResult) Partial() bool {
	for _, s := range r.Spaces {
		if s.Partial {
			return true
		}
	}
	return false
}
