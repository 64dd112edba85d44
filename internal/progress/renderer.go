package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Renderer redraws progress bars in place until stopped.
type Renderer struct {
	bars     []*Bar
	output   io.Writer
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
	mu       sync.Mutex
}

// NewRenderer creates a Renderer that draws bars to output.
func NewRenderer(output io.Writer, bars ...*Bar) *Renderer {
	return &Renderer{
		bars:     bars,
		output:   output,
		interval: 100 * time.Millisecond,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Render draws the bars every interval until Stop is called.
func (r *Renderer) Render() {
	defer close(r.stopped)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.draw(false)

	for {
		select {
		case <-r.done:
			r.draw(true)
			return
		case <-ticker.C:
			r.draw(true)
		}
	}
}

// Stop draws the bars a final time and waits for Render to return.
func (r *Renderer) Stop() {
	r.once.Do(func() {
		close(r.done)
	})
	<-r.stopped

	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.output)
}

// draw writes every bar, moving the cursor back over the previous frame first.
func (r *Renderer) draw(redraw bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if redraw {
		for range r.bars {
			_, _ = fmt.Fprint(r.output, "\033[1A\033[K")
		}
	}

	for _, bar := range r.bars {
		_, _ = fmt.Fprintln(r.output, bar.String())
	}
}
