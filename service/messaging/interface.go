package messaging

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by Publish once the queue was closed, and by
	// Consume once the queue is closed and drained.
	ErrClosed = errors.New("messaging: queue closed")

	// ErrFull is returned by Publish when a bounded queue is at capacity.
	ErrFull = errors.New("messaging: queue full")
)

// Queue represents an abstract FIFO queue for any payload type. Ownership of
// a published item passes to the queue; ownership of a consumed item passes
// to the consumer.
type Queue[T any] interface {
	// Publish appends an item to the tail of the queue
	Publish(ctx context.Context, t *T) error

	// Requeue appends an item taken from this queue back to its tail. Unlike
	// Publish it is accepted after Close, so that consumers can recirculate
	// items while draining.
	Requeue(t *T)

	// Consume blocks until an item is available, the queue is closed and
	// empty, or ctx is done
	Consume(ctx context.Context) (*T, error)

	// TryConsume pops the head of the queue without blocking
	TryConsume() (*T, bool)

	// Close marks the end of publishing
	Close()

	// Size returns the number of queued items
	Size() int
}
