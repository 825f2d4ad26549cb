package event

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dispatchor/service/messaging/memory"
)

func TestListener(t *testing.T) {
	publisher := NewPublisher[int](memory.NewQueue[Event[int]](memory.DefaultConfig()))
	var received []int
	listener := NewListener[int](publisher, func(e *Event[int]) {
		received = append(received, e.Data)
	}, logr.Discard())
	listener.Start(context.Background())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := publisher.Publish(ctx, NewEvent(&Context{EventType: TypeAdmitted, RequestID: i}, i))
		require.NoError(t, err)
	}
	publisher.Close()

	done := make(chan struct{})
	go func() {
		listener.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after close")
	}
	assert.Equal(t, []int{0, 1, 2}, received)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(&Context{EventType: TypeCompleted, RequestID: 4}, "payload")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "payload", e.Data)
	assert.Equal(t, TypeCompleted, e.Context.EventType)
	assert.NotNil(t, e.Metadata)
}

func TestNilPublisher(t *testing.T) {
	var publisher *Publisher[int]
	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{}, 1)))
	publisher.Close()
}
