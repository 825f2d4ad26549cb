package dispatchor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/viant/dispatchor/service/dispatcher"
	"github.com/viant/dispatchor/service/executor"
	"github.com/viant/dispatchor/service/pool"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the dispatcher configuration.
// It can be populated from JSON or YAML; decode onto DefaultConfig so that
// unset timings keep their defaults. A zero ServiceTime or RetryInterval is
// taken literally.
type Config struct {
	Services  []ServiceConfig `json:"services" yaml:"services"`
	Execution ExecutionConfig `json:"execution" yaml:"execution"`
	Dispatch  DispatchConfig  `json:"dispatch" yaml:"dispatch"`
	Lifecycle LifecycleConfig `json:"lifecycle" yaml:"lifecycle"`
}

// ServiceConfig lists the workers of a service; a service ID is its position
type ServiceConfig struct {
	Workers []WorkerConfig `json:"workers" yaml:"workers"`
}

type WorkerConfig struct {
	Priority int `json:"priority" yaml:"priority"`
	Capacity int `json:"capacity" yaml:"capacity"`
}

type ExecutionConfig struct {
	// ServiceTime is how long every request holds worker capacity
	ServiceTime Duration `json:"serviceTime" yaml:"serviceTime"`
}

type DispatchConfig struct {
	// RetryInterval bounds the sleep after a fruitless queue cycle; zero
	// waits for a credit or an arrival only
	RetryInterval Duration `json:"retryInterval" yaml:"retryInterval"`
}

type LifecycleConfig struct {
	// DrainDelay postpones closing the service queues on Drain
	DrainDelay Duration `json:"drainDelay,omitempty" yaml:"drainDelay,omitempty"`
}

// DefaultConfig returns a Config with default timings and no services.
func DefaultConfig() *Config {
	return &Config{
		Execution: ExecutionConfig{ServiceTime: Duration(executor.DefaultServiceTime)},
		Dispatch:  DispatchConfig{RetryInterval: Duration(dispatcher.DefaultRetryInterval)},
	}
}

// NewConfig creates a default configuration with uniform services, each
// having the supplied workers
func NewConfig(services int, workers ...WorkerConfig) *Config {
	ret := DefaultConfig()
	for i := 0; i < services; i++ {
		ret.Services = append(ret.Services, ServiceConfig{Workers: append([]WorkerConfig{}, workers...)})
	}
	return ret
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNoServices
	}
	var err error
	if len(c.Services) == 0 {
		err = multierr.Append(err, ErrNoServices)
	}
	for i, service := range c.Services {
		if len(service.Workers) == 0 {
			err = multierr.Append(err, fmt.Errorf("services[%d]: %w", i, ErrNoWorkers))
		}
		for j, worker := range service.Workers {
			if worker.Capacity < 0 {
				err = multierr.Append(err, fmt.Errorf("services[%d].workers[%d]: capacity %d: %w", i, j, worker.Capacity, ErrNegativeCapacity))
			}
		}
	}
	if c.Execution.ServiceTime < 0 {
		err = multierr.Append(err, fmt.Errorf("execution.serviceTime must be >= 0"))
	}
	if c.Dispatch.RetryInterval < 0 {
		err = multierr.Append(err, fmt.Errorf("dispatch.retryInterval must be >= 0"))
	}
	if c.Lifecycle.DrainDelay < 0 {
		err = multierr.Append(err, fmt.Errorf("lifecycle.drainDelay must be >= 0"))
	}
	return err
}

// Specs returns the pool specification of a service
func (s *ServiceConfig) Specs() []pool.Spec {
	ret := make([]pool.Spec, 0, len(s.Workers))
	for _, worker := range s.Workers {
		ret = append(ret, pool.Spec{Priority: worker.Priority, Capacity: worker.Capacity})
	}
	return ret
}

// Duration is a time.Duration decoded from strings such as "5s"; plain
// numbers are nanoseconds
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return d.set(value)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var value interface{}
	if err := node.Decode(&value); err != nil {
		return err
	}
	return d.set(value)
}

func (d *Duration) set(value interface{}) error {
	switch actual := value.(type) {
	case string:
		parsed, err := time.ParseDuration(actual)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", actual, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(actual)
	case float64:
		*d = Duration(int64(actual))
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration: %v", value)
	}
	return nil
}
