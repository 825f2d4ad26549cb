package intake

import (
	"context"
	"errors"

	"github.com/viant/dispatchor"
	"go.uber.org/multierr"
)

// RequestSpec is a request to submit
type RequestSpec struct {
	Service int `json:"service" yaml:"service"`
	Demand  int `json:"demand" yaml:"demand"`
}

// Document is a dispatcher configuration with requests
type Document struct {
	dispatchor.Config `yaml:",inline"`
	Requests          []RequestSpec `json:"requests" yaml:"requests"`
}

// Submit submits all requests in order. Requests for unknown services are
// counted as rejected by the runtime and skipped; negative demands are
// skipped and reported in the aggregated error.
func (d *Document) Submit(ctx context.Context, runtime *dispatchor.Runtime) error {
	var errs error
	for _, request := range d.Requests {
		_, err := runtime.Submit(ctx, request.Service, request.Demand)
		switch {
		case err == nil, errors.Is(err, dispatchor.ErrInvalidRoute):
		case errors.Is(err, dispatchor.ErrNegativeDemand):
			errs = multierr.Append(errs, err)
		default:
			return multierr.Append(errs, err)
		}
	}
	return errs
}
