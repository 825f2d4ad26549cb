package dispatchor

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dispatchor/model"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		config      *Config
		expect      []error
	}{
		{description: "valid", config: NewConfig(2, WorkerConfig{Priority: 0, Capacity: 10})},
		{description: "nil", config: nil, expect: []error{ErrNoServices}},
		{description: "no services", config: DefaultConfig(), expect: []error{ErrNoServices}},
		{
			description: "aggregated",
			config: &Config{Services: []ServiceConfig{
				{},
				{Workers: []WorkerConfig{{Priority: 0, Capacity: -1}, {Priority: 1, Capacity: -2}}},
			}},
			expect: []error{ErrNoWorkers, ErrNegativeCapacity, ErrNegativeCapacity},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			err := testCase.config.Validate()
			if len(testCase.expect) == 0 {
				assert.NoError(t, err)
				return
			}
			errs := multierr.Errors(err)
			require.Len(t, errs, len(testCase.expect))
			for i, expect := range testCase.expect {
				assert.True(t, errors.Is(errs[i], expect), errs[i].Error())
			}
		})
	}
}

func TestConfig_Decode(t *testing.T) {
	data := `
services:
  - workers:
      - priority: 1
        capacity: 10
      - priority: 0
        capacity: 5
execution:
  serviceTime: 250ms
lifecycle:
  drainDelay: 2s
`
	config := DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte(data), config))
	assert.NoError(t, config.Validate())
	assert.Equal(t, 250*time.Millisecond, config.Execution.ServiceTime.Duration())
	assert.Equal(t, 2*time.Second, config.Lifecycle.DrainDelay.Duration())
	assert.Equal(t, 100*time.Microsecond, config.Dispatch.RetryInterval.Duration())
	require.Len(t, config.Services, 1)
	assert.Equal(t, WorkerConfig{Priority: 0, Capacity: 5}, config.Services[0].Workers[1])

	encoded, err := json.Marshal(config)
	require.NoError(t, err)
	decoded := &Config{}
	require.NoError(t, json.Unmarshal(encoded, decoded))
	assert.Equal(t, config, decoded)
}

func TestDuration_Unmarshal(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      time.Duration
		hasError    bool
	}{
		{description: "string", input: `"5s"`, expect: 5 * time.Second},
		{description: "nanoseconds", input: `1000`, expect: time.Microsecond},
		{description: "invalid", input: `"five"`, hasError: true},
		{description: "wrong type", input: `true`, hasError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(testCase.input), &d)
			if testCase.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, d.Duration())
		})
	}
}

func TestConfig_ZeroServiceTime(t *testing.T) {
	config := NewConfig(1, WorkerConfig{Capacity: 1})
	config.Execution.ServiceTime = 0
	srv, err := New(WithConfig(config))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), srv.Config().Execution.ServiceTime.Duration())
	assert.Equal(t, time.Duration(0), srv.serviceTime(model.NewRequest(0, 0, 1, time.Now())))
}
