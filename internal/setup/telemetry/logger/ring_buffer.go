package logger

// RingBuffer implements a circular buffer for log lines.
type RingBuffer struct {
	lines     []string
	capacity  int
	head      int // Points to the next write position
	size      int // Current number of items in buffer
	totalSeen int // Total number of lines that have passed through
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// Add adds a line, overwriting the oldest one once the buffer is full.
func (rb *RingBuffer) Add(line string) {
	rb.lines[rb.head] = line

	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}

	rb.totalSeen++
}

// Len returns the number of buffered lines.
func (rb *RingBuffer) Len() int {
	return rb.size
}

// Lines returns all lines in chronological order.
func (rb *RingBuffer) Lines() []string {
	if rb.size == 0 {
		return nil
	}

	result := make([]string, rb.size)
	start := (rb.head - rb.size + rb.capacity) % rb.capacity

	for i := range rb.size {
		result[i] = rb.lines[(start+i)%rb.capacity]
	}

	return result
}
