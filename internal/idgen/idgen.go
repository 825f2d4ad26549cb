package idgen

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier as string. It is a
// variable so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Sequence assigns monotonically increasing integer identifiers starting at 0.
// It is safe for concurrent use.
type Sequence struct {
	next atomic.Int64
}

// Next returns the next identifier.
func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}

// Issued returns how many identifiers were handed out so far.
func (s *Sequence) Issued() int {
	return int(s.next.Load())
}
