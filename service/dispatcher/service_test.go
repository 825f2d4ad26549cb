package dispatcher

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
	"github.com/viant/dispatchor/service/dao/request/memory"
	"github.com/viant/dispatchor/service/executor"
	mqueue "github.com/viant/dispatchor/service/messaging/memory"
	"github.com/viant/dispatchor/service/pool"
	"github.com/viant/dispatchor/service/recorder"
	"golang.org/x/sync/errgroup"
)

type fixture struct {
	pool    *pool.Pool
	queue   *mqueue.Queue[model.Request]
	tracker *progress.Progress
	store   *memory.Service
	group   errgroup.Group
}

func newFixture(t *testing.T, serviceTime executor.ServiceTime, specs ...pool.Spec) *fixture {
	t.Helper()
	workers, err := pool.New(specs...)
	require.NoError(t, err)
	ret := &fixture{
		pool:    workers,
		queue:   mqueue.NewQueue[model.Request](mqueue.DefaultConfig()),
		tracker: progress.New("test", time.Now()),
		store:   memory.New(),
	}
	rec := &recorder.Recorder{Progress: ret.tracker, Store: ret.store}
	ctx := logging.IntoContext(context.Background(), testr.New(t))
	for _, worker := range workers.Workers() {
		engine := executor.New(0, worker, executor.WithServiceTime(serviceTime), executor.WithRecorder(rec))
		ret.group.Go(func() error { return engine.Run(ctx) })
	}
	srv := New(0, ret.queue, workers, WithRecorder(rec))
	ret.group.Go(func() error { return srv.Run(ctx) })
	return ret
}

func (f *fixture) submit(t *testing.T, demands ...int) {
	t.Helper()
	for _, demand := range demands {
		id := f.tracker.Snapshot().Submitted
		f.tracker.Update(progress.Delta{Submitted: 1})
		require.NoError(t, f.queue.Publish(context.Background(), model.NewRequest(id, 0, demand, time.Now())))
	}
}

func (f *fixture) stop(t *testing.T) {
	t.Helper()
	f.queue.Close()
	done := make(chan error, 1)
	go func() { done <- f.group.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func (f *fixture) assertAtRest(t *testing.T) {
	t.Helper()
	for _, worker := range f.pool.Workers() {
		assert.Equal(t, worker.Capacity(), worker.Available())
		debited, credited := worker.Totals()
		assert.Equal(t, debited, credited)
	}
}

func TestService_CapacityBoundsConcurrency(t *testing.T) {
	var mux sync.Mutex
	running, peak := 0, 0
	serviceTime := func(*model.Request) time.Duration {
		mux.Lock()
		running++
		if running > peak {
			peak = running
		}
		mux.Unlock()
		time.Sleep(20 * time.Millisecond)
		mux.Lock()
		running--
		mux.Unlock()
		return 0
	}
	f := newFixture(t, serviceTime, pool.Spec{Priority: 0, Capacity: 10})
	f.submit(t, 5, 5, 5)
	f.stop(t)

	snapshot := f.tracker.Snapshot()
	assert.ElementsMatch(t, []int{0, 1, 2}, snapshot.Order)
	assert.Equal(t, 3, snapshot.Completed)
	assert.Equal(t, 0, snapshot.Rejected)
	mux.Lock()
	assert.LessOrEqual(t, peak, 2)
	mux.Unlock()
	f.assertAtRest(t)
}

func TestService_PriorityOrder(t *testing.T) {
	gate := make(chan struct{})
	serviceTime := func(*model.Request) time.Duration {
		<-gate
		return 0
	}
	f := newFixture(t, serviceTime, pool.Spec{Priority: 1, Capacity: 100}, pool.Spec{Priority: 0, Capacity: 5})
	f.submit(t, 5, 5)
	require.Eventually(t, func() bool {
		return len(f.tracker.Snapshot().Order) == 2
	}, 5*time.Second, time.Millisecond)

	first, err := f.store.Load(context.Background(), 0)
	require.NoError(t, err)
	second, err := f.store.Load(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, first.Worker)
	require.NotNil(t, second.Worker)
	assert.Equal(t, 0, first.Worker.Priority)
	assert.Equal(t, 1, second.Worker.Priority)

	close(gate)
	f.stop(t)
	assert.Equal(t, []int{0, 1}, f.tracker.Snapshot().Order)
	f.assertAtRest(t)
}

func TestService_ForcedWait(t *testing.T) {
	f := newFixture(t, executor.Fixed(5*time.Millisecond), pool.Spec{Priority: 0, Capacity: 5})
	f.submit(t, 5, 5)
	f.stop(t)

	snapshot := f.tracker.Snapshot()
	assert.Equal(t, []int{0, 1}, snapshot.Order)
	assert.Equal(t, 2, snapshot.Completed)
	assert.GreaterOrEqual(t, snapshot.ForcedWaits, 1)
	second, err := f.store.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ForcedWaits, second.Attempts)
	assert.Equal(t, model.RequestStateCompleted, second.State)
	f.assertAtRest(t)
}

func TestService_Undeliverable(t *testing.T) {
	f := newFixture(t, executor.Fixed(time.Millisecond), pool.Spec{Priority: 0, Capacity: 5}, pool.Spec{Priority: 1, Capacity: 3})
	f.submit(t, 6, 2)
	f.stop(t)

	snapshot := f.tracker.Snapshot()
	assert.Equal(t, []int{1}, snapshot.Order)
	assert.Equal(t, 1, snapshot.Undeliverable)
	assert.Equal(t, 0, snapshot.ForcedWaits)
	failed, err := f.store.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStateUndeliverable, failed.State)
	assert.Contains(t, failed.Error, "undeliverable")
	f.assertAtRest(t)
}

func TestService_ZeroDemand(t *testing.T) {
	f := newFixture(t, executor.Fixed(time.Millisecond), pool.Spec{Priority: 0, Capacity: 0})
	f.submit(t, 0, 0)
	f.stop(t)
	assert.Equal(t, []int{0, 1}, f.tracker.Snapshot().Order)
	f.assertAtRest(t)
}

func TestService_Cancelled(t *testing.T) {
	workers, err := pool.New(pool.Spec{Priority: 0, Capacity: 1})
	require.NoError(t, err)
	queue := mqueue.NewQueue[model.Request](mqueue.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := New(0, queue, workers)
	assert.ErrorIs(t, srv.Run(ctx), context.Canceled)

	_, err = workers.Workers()[0].Queue().Consume(context.Background())
	assert.Error(t, err, "worker queues are closed once the dispatcher stops")
}

func TestService_CancelledStopsAdmission(t *testing.T) {
	workers, err := pool.New(pool.Spec{Priority: 0, Capacity: 100})
	require.NoError(t, err)
	queue := mqueue.NewQueue[model.Request](mqueue.DefaultConfig())
	for i := 0; i < 10; i++ {
		require.NoError(t, queue.Publish(context.Background(), model.NewRequest(i, 0, 1, time.Now())))
	}
	tracker := progress.New("test", time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := New(0, queue, workers, WithRecorder(&recorder.Recorder{Progress: tracker}))
	assert.ErrorIs(t, srv.Run(ctx), context.Canceled)

	assert.Empty(t, tracker.Snapshot().Order, "nothing is admitted once ctx is done")
	assert.Equal(t, 10, queue.Size())
	assert.Equal(t, 100, workers.Workers()[0].Available())
}
