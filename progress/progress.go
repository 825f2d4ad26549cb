// Package progress provides a lightweight tracker that keeps aggregated
// dispatch counters for a single run.  Dispatchers and execution engines
// update it via Update/Admit; the report reads a Snapshot once every loop
// has stopped.

package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the runtime,
// dispatchers or execution engines.
type Delta struct {
	Submitted     int
	Rejected      int
	ForcedWaits   int
	Undeliverable int
	Completed     int
}

// Progress keeps aggregated counters of a run.  It is safe for concurrent use.
type Progress struct {
	RunID     string
	StartedAt time.Time

	Submitted     int
	Rejected      int
	ForcedWaits   int
	Undeliverable int
	Admitted      int
	Completed     int
	// Order holds request IDs in admission order
	Order []int

	mu       sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for the given run
func New(runID string, startedAt time.Time) *Progress {
	return &Progress{RunID: runID, StartedAt: startedAt}
}

// Update applies the supplied delta to the tracker.  If an onChange
// callback has been registered it is invoked with a copy of the updated
// tracker outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.Submitted += d.Submitted
	p.Rejected += d.Rejected
	p.ForcedWaits += d.ForcedWaits
	p.Undeliverable += d.Undeliverable
	p.Completed += d.Completed
	snapshot := p.snapshot()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Admit appends the request ID to the execution-order log
func (p *Progress) Admit(requestID int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.Admitted++
	p.Order = append(p.Order, requestID)
	snapshot := p.snapshot()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// OnChange registers a callback that is invoked after every change.  Passing
// nil disables the callback.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

// snapshot must be called with p.mu held
func (p *Progress) snapshot() Progress {
	return Progress{
		RunID:         p.RunID,
		StartedAt:     p.StartedAt,
		Submitted:     p.Submitted,
		Rejected:      p.Rejected,
		ForcedWaits:   p.ForcedWaits,
		Undeliverable: p.Undeliverable,
		Admitted:      p.Admitted,
		Completed:     p.Completed,
		Order:         append([]int(nil), p.Order...),
	}
}
