package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dispatchor/internal/logging"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/progress"
	"github.com/viant/dispatchor/service/dao"
	"github.com/viant/dispatchor/service/dao/request/memory"
	"github.com/viant/dispatchor/service/pool"
	"github.com/viant/dispatchor/service/recorder"
)

func admit(t *testing.T, p *pool.Pool, id, demand int) {
	t.Helper()
	admission, err := p.Admit(model.NewRequest(id, 0, demand, time.Now()))
	require.NoError(t, err)
	require.NotNil(t, admission)
}

func TestService_Run(t *testing.T) {
	p, err := pool.New(pool.Spec{Priority: 1, Capacity: 10})
	require.NoError(t, err)
	worker := p.Workers()[0]
	store := memory.New()
	tracker := progress.New("run", time.Now())
	rec := &recorder.Recorder{Progress: tracker, Store: store}

	admit(t, p, 0, 4)
	admit(t, p, 1, 6)
	assert.Equal(t, 0, worker.Available())
	p.Close()

	srv := New(0, worker, WithServiceTime(Fixed(time.Millisecond)), WithRecorder(rec))
	require.NoError(t, srv.Run(logging.IntoContext(context.Background(), testr.New(t))))

	assert.Equal(t, 10, worker.Available())
	debited, credited := worker.Totals()
	assert.Equal(t, debited, credited)
	assert.Equal(t, 2, tracker.Snapshot().Completed)

	completed, err := store.List(context.Background(), dao.NewParameter("State", string(model.RequestStateCompleted)))
	require.NoError(t, err)
	require.Len(t, completed, 2)
	for _, request := range completed {
		require.NotNil(t, request.StartedAt)
		require.NotNil(t, request.FinishedAt)
		assert.GreaterOrEqual(t, request.Waiting(), time.Duration(0))
		assert.GreaterOrEqual(t, request.Turnaround(), request.Waiting())
	}
}

func TestService_RunConcurrently(t *testing.T) {
	p, err := pool.New(pool.Spec{Priority: 0, Capacity: 3})
	require.NoError(t, err)
	worker := p.Workers()[0]
	for i := 0; i < 3; i++ {
		admit(t, p, i, 1)
	}
	p.Close()

	var mux sync.Mutex
	running := 0
	all := make(chan struct{})
	barrier := func(*model.Request) time.Duration {
		mux.Lock()
		running++
		if running == 3 {
			close(all)
		}
		mux.Unlock()
		select {
		case <-all:
		case <-time.After(5 * time.Second):
		}
		return 0
	}

	srv := New(0, worker, WithServiceTime(barrier))
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	select {
	case <-all:
	case <-time.After(5 * time.Second):
		t.Fatal("requests were not executed concurrently")
	}
	require.NoError(t, <-done)
	assert.Equal(t, 3, worker.Available())
}

func TestService_RunCancelled(t *testing.T) {
	p, err := pool.New(pool.Spec{Priority: 0, Capacity: 3})
	require.NoError(t, err)
	worker := p.Workers()[0]
	tracker := progress.New("run", time.Now())
	for i := 0; i < 3; i++ {
		admit(t, p, i, 1)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := New(0, worker, WithServiceTime(Fixed(time.Millisecond)), WithRecorder(&recorder.Recorder{Progress: tracker}))
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	select {
	case <-done:
		t.Fatal("engine stopped before its queue was closed")
	case <-time.After(20 * time.Millisecond):
	}
	p.Close()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after its queue was closed")
	}
	assert.Equal(t, 3, tracker.Snapshot().Completed, "admitted requests run despite cancellation")
	assert.Equal(t, 3, worker.Available())
}

func TestServiceTime(t *testing.T) {
	request := model.NewRequest(0, 0, 3, time.Now())
	assert.Equal(t, 2*time.Second, Fixed(2*time.Second)(request))
	assert.Equal(t, 30*time.Millisecond, PerDemand(10*time.Millisecond)(request))
}
