package executor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/dispatchor/internal/clock"
	"github.com/viant/dispatchor/internal/logging"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/progress"
	"github.com/viant/dispatchor/service/event"
	"github.com/viant/dispatchor/service/messaging"
	"github.com/viant/dispatchor/service/pool"
	"github.com/viant/dispatchor/service/recorder"
	"github.com/viant/dispatchor/tracing"
)

// Service is the execution engine of a single worker
type Service struct {
	serviceID   int
	worker      *pool.Worker
	serviceTime ServiceTime
	recorder    *recorder.Recorder
	wg          sync.WaitGroup
}

// Run consumes the worker execution queue until it is closed and drained,
// then waits for all launched requests to finish. The dispatcher closes the
// queue once it stops admitting, so Run never stops on ctx alone: admitted
// requests always execute and credit their capacity back. The logger is
// taken from ctx.
func (s *Service) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).WithValues("service", s.serviceID, "worker", s.worker.Index(), "priority", s.worker.Priority())
	logger.V(logging.DEFAULT).Info("worker lane started", "capacity", s.worker.Capacity())
	defer s.wg.Wait()
	ctx = logging.IntoContext(context.WithoutCancel(ctx), logger)
	for {
		request, err := s.worker.Queue().Consume(ctx)
		if err != nil {
			if errors.Is(err, messaging.ErrClosed) {
				logger.V(logging.DEBUG).Info("worker lane stopped")
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.execute(ctx, request)
		}()
	}
}

func (s *Service) execute(ctx context.Context, request *model.Request) {
	logger := logging.FromContext(ctx)
	ctx, span := tracing.StartSpan(ctx, "dispatchor.execute")
	span.WithAttributes(tracing.RequestAttributes(request.ID, request.ServiceID)).
		WithInt("worker.index", s.worker.Index()).
		WithInt("request.demand", request.Demand)

	request.Start(clock.Now())
	logger.V(logging.VERBOSE).Info("started processing", "request", request.ID, "demand", request.Demand)
	s.emit(ctx, logger, event.TypeStarted, request)

	if d := s.serviceTime(request); d > 0 {
		time.Sleep(d)
	}

	request.Complete(clock.Now())
	s.worker.Release(request.Demand)
	available := s.worker.Available()
	logger.V(logging.VERBOSE).Info("finished processing", "request", request.ID, "turnaround", request.Turnaround())

	s.recorder.Counters().Update(progress.Delta{Completed: 1})
	s.recorder.Meter().RecordCompleted(request.ServiceID, s.worker.Index(), available, request.Waiting(), request.Turnaround())
	s.emit(ctx, logger, event.TypeCompleted, request)
	tracing.EndSpan(span, nil)
}

func (s *Service) emit(ctx context.Context, logger logr.Logger, eventType string, request *model.Request) {
	if err := s.recorder.Emit(ctx, eventType, request); err != nil {
		logger.Error(err, "failed to record request", "request", request.ID)
	}
}

// New creates an execution engine for a worker of the given service
func New(serviceID int, worker *pool.Worker, options ...Option) *Service {
	ret := &Service{
		serviceID:   serviceID,
		worker:      worker,
		serviceTime: Fixed(DefaultServiceTime),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
