package tree

import "sync/atomic"

// IDGenerator hands out node IDs. Implementations must never return the
// same ID twice unless a test wants exactly that.
type IDGenerator interface {
	NextID() int64
}

// Sequence is a monotonically increasing, concurrency-safe ID counter.
// The zero value starts at 1.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a counter whose first ID is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NextID returns the next ID.
func (s *Sequence) NextID() int64 {
	return s.last.Add(1)
}

// Reset restarts the counter so the next ID is 1.
func (s *Sequence) Reset() {
	s.last.Store(0)
}

// Fixed returns the same ID every time.
type Fixed int64

// NextID returns f.
func (f Fixed) NextID() int64 { return int64(f) }

// processIDs is shared by every node built without an explicit generator,
// keeping IDs unique across all trees in the process.
var processIDs = NewSequence()

// ProcessIDs returns the process-wide counter used when no generator is given.
func ProcessIDs() *Sequence { return processIDs }
