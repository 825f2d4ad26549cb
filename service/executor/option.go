package executor

import (
	"github.com/viant/dispatchor/service/recorder"
)

// Option customises an execution engine
type Option func(*Service)

// WithServiceTime overrides the service time strategy
func WithServiceTime(serviceTime ServiceTime) Option {
	return func(s *Service) {
		if serviceTime != nil {
			s.serviceTime = serviceTime
		}
	}
}

// WithRecorder sets the sink of lifecycle transitions
func WithRecorder(r *recorder.Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}
