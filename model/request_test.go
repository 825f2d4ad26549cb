package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequest_Lifecycle(t *testing.T) {
	arrival := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	request := NewRequest(7, 1, 5, arrival)
	assert.Equal(t, RequestStateQueued, request.State)
	assert.Equal(t, time.Duration(0), request.Waiting())
	assert.Equal(t, time.Duration(0), request.Turnaround())

	request.Retry()
	request.Admit(Lane{Index: 1, Priority: 3})
	assert.Equal(t, RequestStateAdmitted, request.State)
	assert.Equal(t, 1, request.Attempts)

	request.Start(arrival.Add(10 * time.Millisecond))
	assert.Equal(t, RequestStateExecuting, request.State)
	assert.False(t, request.IsCompleted())

	request.Complete(arrival.Add(30 * time.Millisecond))
	assert.True(t, request.IsCompleted())
	assert.True(t, request.State.IsTerminal())
	assert.Equal(t, 10*time.Millisecond, request.Waiting())
	assert.Equal(t, 30*time.Millisecond, request.Turnaround())
}

func TestRequest_Fail(t *testing.T) {
	request := NewRequest(0, 0, 500, time.Now())
	request.Fail(errors.New("too big"))
	assert.Equal(t, RequestStateUndeliverable, request.State)
	assert.Equal(t, "too big", request.Error)
	assert.True(t, request.State.IsTerminal())
	assert.False(t, request.IsCompleted())
}

func TestRequest_Clone(t *testing.T) {
	now := time.Now()
	request := NewRequest(1, 0, 2, now)
	request.Admit(Lane{Index: 0, Priority: 0})
	request.Start(now)

	clone := request.Clone()
	assert.EqualValues(t, request, clone)

	clone.Worker.Index = 9
	*clone.StartedAt = now.Add(time.Hour)
	assert.Equal(t, 0, request.Worker.Index)
	assert.Equal(t, now, *request.StartedAt)

	var nilRequest *Request
	assert.Nil(t, nilRequest.Clone())
}
