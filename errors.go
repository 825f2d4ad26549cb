package dispatchor

import (
	"errors"

	"github.com/viant/dispatchor/service/pool"
)

var (
	// ErrInvalidRoute is returned by Submit for a service ID outside the
	// configured services; such a request is counted as rejected.
	ErrInvalidRoute = errors.New("dispatchor: invalid request route")

	// ErrNegativeDemand is returned by Submit for a negative resource demand
	ErrNegativeDemand = errors.New("dispatchor: negative demand")

	// ErrNoServices indicates a configuration without services
	ErrNoServices = errors.New("dispatchor: no services")

	// ErrClosed is returned by Submit once the runtime was drained
	ErrClosed = errors.New("dispatchor: runtime closed")

	// ErrNotStarted is returned by Wait before Start
	ErrNotStarted = errors.New("dispatchor: runtime not started")

	// ErrNotStopped is returned by Report before the runtime stopped
	ErrNotStopped = errors.New("dispatchor: runtime not stopped")

	ErrNoWorkers           = pool.ErrNoWorkers
	ErrNegativeCapacity    = pool.ErrNegativeCapacity
	ErrUndeliverableDemand = pool.ErrUndeliverableDemand
)
