package dispatchor

import (
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/service/dao"
	"github.com/viant/dispatchor/service/event"
	"github.com/viant/dispatchor/service/executor"
	"github.com/viant/dispatchor/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger logr.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithServiceTime overrides the configured fixed service time with a
// strategy
func WithServiceTime(serviceTime executor.ServiceTime) Option {
	return func(s *Service) {
		s.serviceTime = serviceTime
	}
}

// WithMetricsRegisterer registers run metrics with the supplied registerer
// instead of a private registry
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// WithRequestDAO sets the request store
func WithRequestDAO(store dao.Service[int, model.Request]) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithEventListener delivers request lifecycle events to the listener on a
// dedicated goroutine
func WithEventListener(listener func(*event.Event[model.Request])) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.logger.Error(err, "failed to init tracing")
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.logger.Error(err, "failed to init tracing")
		}
	}
}
