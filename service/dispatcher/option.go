package dispatcher

import (
	"time"

	"github.com/viant/dispatchor/service/recorder"
)

// DefaultRetryInterval bounds how long a dispatcher sleeps after a fruitless
// queue cycle
const DefaultRetryInterval = 100 * time.Microsecond

// Option customises a dispatcher
type Option func(*Service)

// WithRetryInterval sets the retry interval; zero or less waits for capacity
// or arrival signals only
func WithRetryInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.retryInterval = interval
	}
}

// WithRecorder sets the sink of lifecycle transitions
func WithRecorder(r *recorder.Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}
