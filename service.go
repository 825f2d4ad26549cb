package dispatchor

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/dispatchor/internal/clock"
	"github.com/viant/dispatchor/internal/idgen"
	"github.com/viant/dispatchor/internal/logging"
	"github.com/viant/dispatchor/metrics"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/progress"
	"github.com/viant/dispatchor/service/dao"
	"github.com/viant/dispatchor/service/dao/request/memory"
	"github.com/viant/dispatchor/service/dispatcher"
	"github.com/viant/dispatchor/service/event"
	"github.com/viant/dispatchor/service/executor"
	mmemory "github.com/viant/dispatchor/service/messaging/memory"
	"github.com/viant/dispatchor/service/pool"
	"github.com/viant/dispatchor/service/recorder"
)

// Service represents a configured dispatcher setup
type Service struct {
	config      *Config
	logger      logr.Logger
	serviceTime executor.ServiceTime
	registerer  prometheus.Registerer
	store       dao.Service[int, model.Request]
	listener    func(*event.Event[model.Request])
	runtime     *Runtime
}

func (s *Service) init(options []Option) error {
	s.logger = logr.Discard()
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.serviceTime == nil {
		s.serviceTime = executor.Fixed(s.config.Execution.ServiceTime.Duration())
	}
	if s.registerer == nil {
		s.registerer = prometheus.NewRegistry()
	}
	if s.store == nil {
		s.store = memory.New()
	}
	runtime, err := s.newRuntime()
	if err != nil {
		return err
	}
	s.runtime = runtime
	return nil
}

func (s *Service) newRuntime() (*Runtime, error) {
	runID := idgen.New()
	logger := s.logger.WithValues("run", runID)
	meter, err := metrics.New(s.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	ret := &Runtime{
		config:   s.config,
		logger:   logger,
		tracker:  progress.New(runID, clock.Now()),
		store:    s.store,
		metrics:  meter,
		done:     make(chan struct{}),
		services: make([]*serviceRuntime, 0, len(s.config.Services)),
	}
	ret.tracker.OnChange(func(snapshot progress.Progress) {
		logger.V(logging.TRACE).Info("progress", "submitted", snapshot.Submitted, "admitted", snapshot.Admitted,
			"completed", snapshot.Completed, "forcedWaits", snapshot.ForcedWaits)
	})
	ret.recorder = &recorder.Recorder{RunID: runID, Progress: ret.tracker, Metrics: meter, Store: s.store}
	if s.listener != nil {
		ret.publisher = event.NewPublisher[model.Request](mmemory.NewQueue[event.Event[model.Request]](mmemory.DefaultConfig()))
		ret.listener = event.NewListener[model.Request](ret.publisher, s.listener, logger)
		ret.recorder.Publisher = ret.publisher
	}
	for i := range s.config.Services {
		workers, err := pool.New(s.config.Services[i].Specs()...)
		if err != nil {
			return nil, fmt.Errorf("service %d: %w", i, err)
		}
		queue := mmemory.NewQueue[model.Request](mmemory.DefaultConfig())
		aService := &serviceRuntime{id: i, queue: queue, pool: workers}
		aService.dispatcher = dispatcher.New(i, queue, workers,
			dispatcher.WithRetryInterval(s.config.Dispatch.RetryInterval.Duration()),
			dispatcher.WithRecorder(ret.recorder))
		for _, worker := range workers.Workers() {
			meter.SetAvailable(i, worker.Index(), worker.Available())
			aService.engines = append(aService.engines, executor.New(i, worker,
				executor.WithServiceTime(s.serviceTime),
				executor.WithRecorder(ret.recorder)))
		}
		ret.services = append(ret.services, aService)
	}
	return ret, nil
}

// Runtime returns the runtime of this service
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// New creates a service; configuration errors are aggregated
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
