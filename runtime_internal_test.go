package dispatchor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dispatchor/service/messaging"
)

func TestRuntime_SubmitEnqueueFailure(t *testing.T) {
	srv, err := New(WithConfig(NewConfig(2, WorkerConfig{Priority: 0, Capacity: 5})))
	require.NoError(t, err)
	runtime := srv.Runtime()
	ctx := context.Background()
	runtime.services[0].queue.Close()

	_, err = runtime.Submit(ctx, 0, 1)
	assert.ErrorIs(t, err, messaging.ErrClosed)
	assert.Equal(t, 0, runtime.Progress().Submitted)
	stored, err := runtime.Requests(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	id, err := runtime.Submit(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, id, "a failed enqueue does not consume a request ID")
	assert.Equal(t, 1, runtime.Progress().Submitted)
}
