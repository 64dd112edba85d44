package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Bar tracks how many items of a batch are done and estimates completion
// from the observed throughput. It is safe for concurrent updates.
type Bar struct {
	total   int64
	current int64
	blocked int64
	width   int
	message string
	start   time.Time
	now     func() time.Time
	mu      sync.Mutex
}

// NewBar creates a progress bar for total items, drawn width characters wide.
func NewBar(total int64, width int, message string) *Bar {
	return &Bar{
		total:   total,
		width:   width,
		message: message,
		start:   time.Now(),
		now:     time.Now,
	}
}

// Increment marks n more items as done, capping at the total.
func (b *Bar) Increment(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = min(b.current+n, b.total)
}

// Blocked counts one blocked item.
func (b *Bar) Blocked() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocked++
}

// Current returns the number of finished items.
func (b *Bar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}

// String renders the bar with percentage, counts, elapsed time and ETA.
func (b *Bar) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	percent := 1.0
	if b.total > 0 {
		percent = float64(b.current) / float64(b.total)
	}

	filled := int(percent * float64(b.width))
	bar := strings.Repeat("=", filled) + strings.Repeat("-", b.width-filled)
	elapsed := b.now().Sub(b.start)

	return fmt.Sprintf("%s [%s] %.1f%% | %d/%d | blocked %d | %s (ETA: %s)",
		b.message, bar, percent*100, b.current, b.total, b.blocked,
		elapsed.Round(time.Second), b.eta(elapsed))
}

// eta extrapolates the remaining time from the average time per finished item.
func (b *Bar) eta(elapsed time.Duration) string {
	if b.current == 0 {
		return "?"
	}

	remaining := time.Duration(float64(elapsed) / float64(b.current) * float64(b.total-b.current))

	return remaining.Round(time.Second).String()
}
