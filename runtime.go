package dispatchor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/dispatchor/internal/clock"
	"github.com/viant/dispatchor/internal/idgen"
	"github.com/viant/dispatchor/internal/logging"
	"github.com/viant/dispatchor/metrics"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/progress"
	"github.com/viant/dispatchor/service/dao"
	"github.com/viant/dispatchor/service/dispatcher"
	"github.com/viant/dispatchor/service/event"
	"github.com/viant/dispatchor/service/executor"
	mmemory "github.com/viant/dispatchor/service/messaging/memory"
	"github.com/viant/dispatchor/service/pool"
	"github.com/viant/dispatchor/service/recorder"
	"golang.org/x/sync/errgroup"
)

// serviceRuntime groups the request queue, workers and loops of one service
type serviceRuntime struct {
	id         int
	queue      *mmemory.Queue[model.Request]
	pool       *pool.Pool
	dispatcher *dispatcher.Service
	engines    []*executor.Service
}

// Runtime represents a single dispatch run
type Runtime struct {
	config    *Config
	logger    logr.Logger
	services  []*serviceRuntime
	tracker   *progress.Progress
	store     dao.Service[int, model.Request]
	metrics   *metrics.Metrics
	recorder  *recorder.Recorder
	publisher *event.Publisher[model.Request]
	listener  *event.Listener[model.Request]
	sequence  idgen.Sequence

	submitMux sync.Mutex
	mux       sync.RWMutex
	started   bool
	draining  bool
	done      chan struct{}
	err       error
}

// Start launches one dispatcher per service and one execution engine per
// worker. Calling Start more than once has no effect. Once ctx is done no
// further request is admitted; requests admitted before still run to
// completion and queued requests stay queued.
func (r *Runtime) Start(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.started {
		return nil
	}
	r.started = true
	ctx = logging.IntoContext(ctx, r.logger)
	if r.listener != nil {
		r.listener.Start(ctx)
	}
	group, gCtx := errgroup.WithContext(ctx)
	for _, service := range r.services {
		for _, engine := range service.engines {
			group.Go(func() error { return engine.Run(gCtx) })
		}
		group.Go(func() error { return service.dispatcher.Run(gCtx) })
	}
	go func() {
		err := group.Wait()
		r.publisher.Close()
		if r.listener != nil {
			r.listener.Wait()
		}
		r.err = err
		close(r.done)
		r.logger.V(logging.DEBUG).Info("runtime stopped", "elapsed", clock.Since(r.tracker.StartedAt).String(), "error", err)
	}()
	r.logger.V(logging.DEBUG).Info("runtime started", "services", len(r.services))
	return nil
}

// Submit routes a request with the given demand to a service queue and
// returns the assigned request ID. A request for an unknown service is
// counted as rejected and gets no ID.
func (r *Runtime) Submit(ctx context.Context, serviceID, demand int) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	if demand < 0 {
		return -1, fmt.Errorf("request for service %d demand %d: %w", serviceID, demand, ErrNegativeDemand)
	}
	r.mux.RLock()
	defer r.mux.RUnlock()
	if r.draining {
		return -1, ErrClosed
	}
	if serviceID < 0 || serviceID >= len(r.services) {
		r.logger.V(logging.DEFAULT).Info("invalid request type", "service", serviceID, "demand", demand)
		r.tracker.Update(progress.Delta{Rejected: 1})
		r.metrics.RecordRejected()
		r.publishRejected(ctx, serviceID)
		return -1, fmt.Errorf("service %d: %w", serviceID, ErrInvalidRoute)
	}
	r.submitMux.Lock()
	defer r.submitMux.Unlock()
	request := model.NewRequest(r.sequence.Issued(), serviceID, demand, clock.Now())
	id := request.ID
	r.tracker.Update(progress.Delta{Submitted: 1})
	if err := r.recorder.Emit(ctx, event.TypeReceived, request); err != nil {
		r.logger.Error(err, "failed to record request", "request", id)
	}
	if err := r.services[serviceID].queue.Publish(context.WithoutCancel(ctx), request); err != nil {
		r.tracker.Update(progress.Delta{Submitted: -1})
		if dErr := r.store.Delete(ctx, id); dErr != nil {
			r.logger.Error(dErr, "failed to remove request", "request", id)
		}
		r.publishRejected(ctx, serviceID)
		return -1, fmt.Errorf("failed to enqueue request for service %d: %w", serviceID, err)
	}
	r.sequence.Next()
	r.metrics.RecordSubmitted(serviceID)
	r.logger.V(logging.DEFAULT).Info("request received", "request", id, "service", serviceID, "demand", demand)
	return id, nil
}

func (r *Runtime) publishRejected(ctx context.Context, serviceID int) {
	if r.publisher == nil {
		return
	}
	eCtx := &event.Context{RunID: r.tracker.RunID, EventType: event.TypeRejected, ServiceID: serviceID, RequestID: -1, Worker: -1}
	if err := r.publisher.Publish(ctx, event.NewEvent(eCtx, model.Request{ID: -1, ServiceID: serviceID})); err != nil {
		r.logger.Error(err, "failed to publish rejected event", "service", serviceID)
	}
}

// Drain ends intake: after the configured drain delay every service queue is
// closed. Dispatchers stop once their queue is empty. Calling Drain more than
// once has no effect.
func (r *Runtime) Drain(ctx context.Context) error {
	r.mux.RLock()
	draining := r.draining
	r.mux.RUnlock()
	if draining {
		return nil
	}
	if delay := r.config.Lifecycle.DrainDelay.Duration(); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.draining {
		return nil
	}
	r.draining = true
	for _, service := range r.services {
		service.queue.Close()
	}
	r.logger.V(logging.DEBUG).Info("intake closed", "submitted", r.sequence.Issued())
	return nil
}

// Wait blocks until every dispatcher and execution engine stopped
func (r *Runtime) Wait(ctx context.Context) error {
	r.mux.RLock()
	started := r.started
	r.mux.RUnlock()
	if !started {
		return ErrNotStarted
	}
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown drains the runtime and waits until it stopped
func (r *Runtime) Shutdown(ctx context.Context) error {
	if err := r.Drain(ctx); err != nil {
		return err
	}
	return r.Wait(ctx)
}

// Stopped returns true once all loops returned
func (r *Runtime) Stopped() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Progress returns a snapshot of the run counters
func (r *Runtime) Progress() progress.Progress {
	return r.tracker.Snapshot()
}

// Request returns a copy of the stored request
func (r *Runtime) Request(ctx context.Context, id int) (*model.Request, error) {
	return r.store.Load(ctx, id)
}

// Requests lists stored requests, optionally filtered by state
func (r *Runtime) Requests(ctx context.Context, states ...model.RequestState) ([]*model.Request, error) {
	var parameters []*dao.Parameter
	if len(states) > 0 {
		values := make([]string, 0, len(states))
		for _, state := range states {
			values = append(values, string(state))
		}
		parameters = append(parameters, &dao.Parameter{Name: "State", Value: values})
	}
	return r.store.List(ctx, parameters...)
}

// Available returns the available capacity of each worker per service, in
// admission order
func (r *Runtime) Available() [][]int {
	ret := make([][]int, 0, len(r.services))
	for _, service := range r.services {
		var available []int
		for _, worker := range service.pool.Workers() {
			available = append(available, worker.Available())
		}
		ret = append(ret, available)
	}
	return ret
}
