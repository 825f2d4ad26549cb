package event

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	"github.com/viant/dispatchor/service/messaging"
)

// Listener delivers events consumed from a publisher to a handler on a
// dedicated goroutine.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    logr.Logger
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger logr.Logger) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start consumes events until the publisher is closed and drained, or ctx
// is done.
func (l *Listener[T]) Start(ctx context.Context) {
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(ctx)
			if err != nil {
				if !errors.Is(err, messaging.ErrClosed) && !errors.Is(err, context.Canceled) {
					l.logger.Error(err, "failed to consume event")
				}
				return
			}
			l.handler(event)
		}
	}()
}

// Wait blocks until the listener goroutine returns
func (l *Listener[T]) Wait() {
	<-l.done
}
