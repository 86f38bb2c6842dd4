package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
)

// Plain writes progress as plain lines.
type Plain struct {
	mu    sync.Mutex
	out   io.Writer
	total int
}

var _ driven.ProgressReporter = (*Plain)(nil)

// NewPlain creates a line reporter writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{out: w}
}

func (p *Plain) SpaceStarted(spaceKey string, totalBatches int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = totalBatches
	if totalBatches > 0 {
		fmt.Fprintf(p.out, "Exporting space %s (%d batches)\n", spaceKey, totalBatches)
		return
	}
	fmt.Fprintf(p.out, "Exporting space %s\n", spaceKey)
}

func (p *Plain) BatchStarted(spaceKey string, batch, pages int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "  %s batch %s: %d pages\n", spaceKey, batchLabel(batch, p.total), pages)
}

// PageProcessed is silent; per-page detail belongs in the log.
func (p *Plain) PageProcessed(string, string, bool) {}

func (p *Plain) RateLimited(spaceKey string, wait time.Duration, attempt int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "  %s rate limited, retrying in %s (attempt %d)\n", spaceKey, wait, attempt)
}

func (p *Plain) SpaceFinished(result domain.SpaceResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, summaryLine(result))
}

func batchLabel(batch, total int) string {
	if total > 0 {
		return fmt.Sprintf("%d/%d", batch, total)
	}
	return fmt.Sprintf("%d", batch)
}

func summaryLine(r domain.SpaceResult) string {
	line := fmt.Sprintf("Finished %s: %d pages, %d written, %d failed",
		r.SpaceKey, r.PagesVisited, r.PagesWritten, r.PagesFailed)
	if r.Partial {
		line += " (incomplete)"
	}
	return line
}
