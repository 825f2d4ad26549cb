package executor

import (
	"time"

	"github.com/viant/dispatchor/model"
)

// DefaultServiceTime is the time a request holds worker capacity unless
// configured otherwise
const DefaultServiceTime = 5 * time.Second

// ServiceTime returns how long a request executes
type ServiceTime func(request *model.Request) time.Duration

// Fixed returns a strategy executing every request for d
func Fixed(d time.Duration) ServiceTime {
	return func(*model.Request) time.Duration {
		return d
	}
}

// PerDemand returns a strategy executing a request for unit times its demand
func PerDemand(unit time.Duration) ServiceTime {
	return func(request *model.Request) time.Duration {
		return time.Duration(request.Demand) * unit
	}
}
