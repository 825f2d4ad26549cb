package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/viant/dispatchor/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// MaxSize bounds the number of queued items, 0 means unbounded
	MaxSize int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{}
}

// Queue implements an in-memory, list-backed messaging.Queue
type Queue[T any] struct {
	config   Config
	mu       sync.Mutex
	items    *list.List
	closed   bool
	ready    chan struct{}
	arrivals chan struct{}
	done     chan struct{}
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	return &Queue[T]{
		config:   config,
		items:    list.New(),
		ready:    make(chan struct{}, 1),
		arrivals: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Publish adds a new item to the tail of the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return messaging.ErrClosed
	}
	if q.config.MaxSize > 0 && q.items.Len() >= q.config.MaxSize {
		q.mu.Unlock()
		return messaging.ErrFull
	}
	q.items.PushBack(t)
	q.mu.Unlock()
	notify(q.ready)
	notify(q.arrivals)
	return nil
}

// Requeue puts an item back at the tail, also after Close
func (q *Queue[T]) Requeue(t *T) {
	q.mu.Lock()
	q.items.PushBack(t)
	q.mu.Unlock()
	notify(q.ready)
}

// TryConsume pops the head of the queue, it never blocks
func (q *Queue[T]) TryConsume() (*T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (*T, error) {
	for {
		q.mu.Lock()
		t, ok := q.pop()
		remaining := q.items.Len()
		closed := q.closed
		q.mu.Unlock()
		if ok {
			if remaining > 0 {
				notify(q.ready) // wake up the next consumer
			}
			return t, nil
		}
		if closed {
			return nil, messaging.ErrClosed
		}
		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Arrivals signals items added with Publish. Requeued items do not signal.
func (q *Queue[T]) Arrivals() <-chan struct{} {
	return q.arrivals
}

// Close marks the end of publishing; it is safe to call more than once
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Closed returns true once Close was called
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Size returns the current number of items in the queue
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// pop must be called with q.mu held
func (q *Queue[T]) pop() (*T, bool) {
	front := q.items.Front()
	if front == nil {
		return nil, false
	}
	q.items.Remove(front)
	return front.Value.(*T), true
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
