package domain

// RetrievalCursor tracks the walk through one space. It lives only for the
// duration of that walk and is never persisted.
type RetrievalCursor struct {
	SpaceKey  string
	Offset    int
	BatchSize int

	// Retries counts consecutive rate-limited batch fetches.
	Retries int
}

// NewRetrievalCursor starts a walk at offset zero.
func NewRetrievalCursor(spaceKey string, batchSize int) *RetrievalCursor {
	return &RetrievalCursor{
		SpaceKey:  spaceKey,
		BatchSize: batchSize,
	}
}

// Advance moves to the next batch. The offset tracks batches requested,
// not pages written.
func (c *RetrievalCursor) Advance() {
	c.Offset += c.BatchSize
}

// RecordRetry counts one more consecutive rate-limited fetch and returns
// the new count.
func (c *RetrievalCursor) RecordRetry() int {
	c.Retries++
	return c.Retries
}

// ResetRetries clears the consecutive retry counter after a successful fetch.
func (c *RetrievalCursor) ResetRetries() {
	c.Retries = 0
}

// Batch returns the 1-based number of the batch at the current offset.
func (c *RetrievalCursor) Batch() int {
	if c.BatchSize <= 0 {
		return 1
	}
	return c.Offset/c.BatchSize + 1
}
