package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/service/messaging"
	"github.com/viant/dispatchor/service/messaging/memory"
)

// Spec describes a worker lane
type Spec struct {
	Priority int `json:"priority" yaml:"priority"`
	Capacity int `json:"capacity" yaml:"capacity"`
}

// Worker is a resource-capacitated execution lane of a service
type Worker struct {
	index    int
	priority int
	capacity int

	mu        sync.Mutex
	available int
	debited   int
	credited  int
	queue     *memory.Queue[model.Request]

	onCredit func()
}

// NewWorker creates a worker with its full capacity available
func NewWorker(spec Spec) *Worker {
	return &Worker{
		priority:  spec.Priority,
		capacity:  spec.Capacity,
		available: spec.Capacity,
		queue:     memory.NewQueue[model.Request](memory.DefaultConfig()),
	}
}

// Index returns the position of the worker in the priority order
func (w *Worker) Index() int { return w.index }

// Priority returns the priority rank, lower ranks are tried first
func (w *Worker) Priority() int { return w.priority }

// Capacity returns the maximum capacity
func (w *Worker) Capacity() int { return w.capacity }

// Lane returns the worker identity recorded on admitted requests
func (w *Worker) Lane() model.Lane {
	return model.Lane{Index: w.index, Priority: w.priority}
}

// Available returns the currently available capacity
func (w *Worker) Available() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.available
}

// Totals returns the capacity debited at admission and credited at completion
func (w *Worker) Totals() (debited, credited int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.debited, w.credited
}

// Queue returns the execution queue fed by admissions
func (w *Worker) Queue() messaging.Queue[model.Request] {
	return w.queue
}

// TryAdmit debits the request demand and hands the request over to the
// execution queue as one step. It returns nil when capacity is short,
// otherwise a snapshot of the request taken right before the hand-off; the
// caller must not touch the request itself afterwards.
func (w *Worker) TryAdmit(request *model.Request) (*model.Request, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if request.Demand > w.available {
		return nil, nil
	}
	request.Admit(w.Lane())
	snapshot := request.Clone()
	if err := w.queue.Publish(context.Background(), request); err != nil {
		request.Worker = nil
		request.State = model.RequestStateQueued
		return nil, fmt.Errorf("worker %d: failed to enqueue request %d: %w", w.index, request.ID, err)
	}
	w.available -= request.Demand
	w.debited += request.Demand
	return snapshot, nil
}

// Release credits back capacity debited for a finished request. Crediting
// above the maximum capacity is a contract violation and panics.
func (w *Worker) Release(demand int) {
	w.mu.Lock()
	if demand < 0 || w.available+demand > w.capacity {
		available := w.available
		w.mu.Unlock()
		panic(fmt.Sprintf("pool: worker %d capacity overflow: available=%d credit=%d max=%d", w.index, available, demand, w.capacity))
	}
	w.available += demand
	w.credited += demand
	w.mu.Unlock()
	if w.onCredit != nil {
		w.onCredit()
	}
}

// Close marks that no further admissions will arrive
func (w *Worker) Close() {
	w.queue.Close()
}
