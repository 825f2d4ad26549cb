package event

import (
	"context"

	"github.com/viant/dispatchor/internal/clock"
	"github.com/viant/dispatchor/service/messaging"
)

// Publisher publishes typed events on a queue. A nil *Publisher discards
// events.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if p == nil {
		return nil
	}
	event.CreatedAt = clock.Now()
	return p.queue.Publish(ctx, event)
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	return p.queue.Consume(ctx)
}

// Close stops accepting events; queued events can still be consumed
func (p *Publisher[T]) Close() {
	if p == nil {
		return
	}
	p.queue.Close()
}
