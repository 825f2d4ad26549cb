package pool

import (
	"fmt"
	"sort"

	"github.com/viant/dispatchor/model"
)

// Pool is the priority-ordered collection of workers of one service
type Pool struct {
	workers     []*Worker
	maxCapacity int
	credits     chan struct{}
}

// New creates a pool sorted by ascending priority; equal ranks keep the
// order in which they were specified.
func New(specs ...Spec) (*Pool, error) {
	if len(specs) == 0 {
		return nil, ErrNoWorkers
	}
	ret := &Pool{credits: make(chan struct{}, 1)}
	for i, spec := range specs {
		if spec.Capacity < 0 {
			return nil, fmt.Errorf("worker %d capacity %d: %w", i, spec.Capacity, ErrNegativeCapacity)
		}
		worker := NewWorker(spec)
		worker.onCredit = ret.notifyCredit
		ret.workers = append(ret.workers, worker)
		if spec.Capacity > ret.maxCapacity {
			ret.maxCapacity = spec.Capacity
		}
	}
	sort.SliceStable(ret.workers, func(i, j int) bool {
		return ret.workers[i].priority < ret.workers[j].priority
	})
	for i, worker := range ret.workers {
		worker.index = i
	}
	return ret, nil
}

// Workers returns workers in admission order
func (p *Pool) Workers() []*Worker {
	return p.workers
}

// MaxCapacity returns the largest worker capacity
func (p *Pool) MaxCapacity() int {
	return p.maxCapacity
}

// Admission describes a successful admission
type Admission struct {
	Worker *Worker
	// Request is a snapshot taken at hand-off time
	Request *model.Request
}

// Admit assigns the request to the first worker, in priority order, whose
// available capacity covers the demand.
func (p *Pool) Admit(request *model.Request) (*Admission, error) {
	if request.Demand > p.maxCapacity {
		return nil, fmt.Errorf("demand %d exceeds max capacity %d: %w", request.Demand, p.maxCapacity, ErrUndeliverableDemand)
	}
	for _, worker := range p.workers {
		snapshot, err := worker.TryAdmit(request)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			return &Admission{Worker: worker, Request: snapshot}, nil
		}
	}
	return nil, ErrNoCapacity
}

// Credits signals that some worker credited capacity back. Signals coalesce.
func (p *Pool) Credits() <-chan struct{} {
	return p.credits
}

// Available returns total available capacity across workers
func (p *Pool) Available() int {
	total := 0
	for _, worker := range p.workers {
		total += worker.Available()
	}
	return total
}

// Close closes every worker execution queue
func (p *Pool) Close() {
	for _, worker := range p.workers {
		worker.Close()
	}
}

func (p *Pool) notifyCredit() {
	select {
	case p.credits <- struct{}{}:
	default:
	}
}
