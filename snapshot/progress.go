package snapshot

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how many lists an import has written.
// A nil *ProgressTracker is valid and reports nothing.
type ProgressTracker struct {
	mu       sync.Mutex
	w        io.Writer
	total    int
	done     int
	every    int
	reported int
	started  time.Time
}

// NewProgressTracker creates a tracker that writes to w every time another
// `every` lists out of total have been processed.
func NewProgressTracker(w io.Writer, total, every int) *ProgressTracker {
	if every < 1 {
		every = 1
	}
	return &ProgressTracker{
		w:       w,
		total:   total,
		every:   every,
		started: time.Now(),
	}
}

// Add records n more processed lists.
func (p *ProgressTracker) Add(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = min(p.done+n, p.total)
	if p.done-p.reported >= p.every {
		p.print()
		p.reported = p.done
	}
}

// Finish prints the final line.
func (p *ProgressTracker) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = p.total
	p.print()
	fmt.Fprintln(p.w)
}

// print must be called with mu held.
func (p *ProgressTracker) print() {
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100
	}
	fmt.Fprintf(p.w, "\rImported %d/%d lists (%.1f%%) in %s",
		p.done, p.total, pct, time.Since(p.started).Round(time.Millisecond))
}
