package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/dispatchor/internal/logging"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/progress"
	"github.com/viant/dispatchor/service/event"
	"github.com/viant/dispatchor/service/messaging"
	"github.com/viant/dispatchor/service/pool"
	"github.com/viant/dispatchor/service/recorder"
	"github.com/viant/dispatchor/tracing"
)

// Queue is the request queue of a service
type Queue interface {
	messaging.Queue[model.Request]
	// Arrivals signals newly published requests
	Arrivals() <-chan struct{}
}

// Service is the admission loop of a single service
type Service struct {
	serviceID     int
	queue         Queue
	pool          *pool.Pool
	retryInterval time.Duration
	recorder      *recorder.Recorder
	failures      int
}

// Run dispatches requests until the queue is closed and drained, or ctx is
// done. Once ctx is done no further request is admitted. Before returning it
// closes the execution queues of all workers, so execution engines stop once
// they finish the admitted requests. The logger is taken from ctx.
func (s *Service) Run(ctx context.Context) error {
	defer s.pool.Close()
	logger := logging.FromContext(ctx).WithValues("service", s.serviceID)
	logger.V(logging.DEBUG).Info("dispatcher started", "workers", len(s.pool.Workers()))
	for {
		request, err := s.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, messaging.ErrClosed) {
				logger.V(logging.DEBUG).Info("dispatcher stopped")
				return nil
			}
			return err
		}
		if err = ctx.Err(); err != nil {
			s.queue.Requeue(request)
			logger.V(logging.DEBUG).Info("dispatcher cancelled", "pending", s.queue.Size())
			return err
		}
		if err = s.dispatch(ctx, logger, request); err != nil {
			return err
		}
	}
}

func (s *Service) dispatch(ctx context.Context, logger logr.Logger, request *model.Request) error {
	spanCtx, span := tracing.StartSpan(ctx, "dispatchor.admit")
	span.WithAttributes(tracing.RequestAttributes(request.ID, request.ServiceID)).WithInt("request.attempts", request.Attempts)
	admission, err := s.pool.Admit(request)
	switch {
	case err == nil:
		s.failures = 0
		span.WithInt("worker.index", admission.Worker.Index())
		s.admitted(spanCtx, logger, admission)
		tracing.EndSpan(span, nil)
		return nil
	case errors.Is(err, pool.ErrUndeliverableDemand):
		request.Fail(err)
		logger.Error(err, "undeliverable request", "request", request.ID, "demand", request.Demand)
		s.recorder.Counters().Update(progress.Delta{Undeliverable: 1})
		s.recorder.Meter().RecordUndeliverable(s.serviceID)
		s.emit(spanCtx, logger, event.TypeUndeliverable, request)
		tracing.EndSpan(span, err)
		return nil
	case errors.Is(err, pool.ErrNoCapacity):
		request.Retry()
		logger.V(logging.TRACE).Info("forced wait", "request", request.ID, "demand", request.Demand, "attempts", request.Attempts)
		s.recorder.Counters().Update(progress.Delta{ForcedWaits: 1})
		s.recorder.Meter().RecordForcedWait(s.serviceID)
		s.emit(spanCtx, logger, event.TypeForcedWait, request)
		tracing.EndSpan(span, nil)
		s.queue.Requeue(request)
		s.failures++
		if s.failures >= s.queue.Size() {
			s.failures = 0
			return s.suspend(ctx)
		}
		return nil
	default:
		tracing.EndSpan(span, err)
		return err
	}
}

func (s *Service) admitted(ctx context.Context, logger logr.Logger, admission *pool.Admission) {
	request := admission.Request
	worker := admission.Worker
	available := worker.Available()
	logger.V(logging.DEBUG).Info("request admitted", "request", request.ID, "demand", request.Demand, "worker", worker.Index(), "priority", worker.Priority(), "available", available)
	s.recorder.Counters().Admit(request.ID)
	s.recorder.Meter().RecordAdmitted(s.serviceID, worker.Index(), available)
	s.emit(ctx, logger, event.TypeAdmitted, request)
}

// suspend blocks until capacity is credited back, a request arrives, the
// retry interval elapses or ctx is done
func (s *Service) suspend(ctx context.Context) error {
	var timeout <-chan time.Time
	if s.retryInterval > 0 {
		timer := time.NewTimer(s.retryInterval)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-s.pool.Credits():
	case <-s.queue.Arrivals():
	case <-timeout:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *Service) emit(ctx context.Context, logger logr.Logger, eventType string, request *model.Request) {
	if err := s.recorder.Emit(context.WithoutCancel(ctx), eventType, request); err != nil {
		logger.Error(err, "failed to record request", "request", request.ID)
	}
}

// New creates a dispatcher of the given service
func New(serviceID int, queue Queue, workers *pool.Pool, options ...Option) *Service {
	ret := &Service{
		serviceID:     serviceID,
		queue:         queue,
		pool:          workers,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
