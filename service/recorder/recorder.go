// Package recorder fans request lifecycle transitions out to the run
// counters, the request store, metrics and the event stream.
package recorder

import (
	"context"
	"fmt"

	"github.com/viant/dispatchor/metrics"
	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/progress"
	"github.com/viant/dispatchor/service/dao"
	"github.com/viant/dispatchor/service/event"
)

// Recorder collects the sinks shared by dispatchers and execution engines.
// Any sink may be nil; a nil *Recorder records nothing.
type Recorder struct {
	RunID     string
	Progress  *progress.Progress
	Metrics   *metrics.Metrics
	Publisher *event.Publisher[model.Request]
	Store     dao.Service[int, model.Request]
}

// Counters returns the progress tracker, possibly nil
func (r *Recorder) Counters() *progress.Progress {
	if r == nil {
		return nil
	}
	return r.Progress
}

// Meter returns the metrics set, possibly nil
func (r *Recorder) Meter() *metrics.Metrics {
	if r == nil {
		return nil
	}
	return r.Metrics
}

// Emit stores a copy of the request and publishes an event of the given
// type. The request is copied before the call returns, so the caller may
// keep mutating it.
func (r *Recorder) Emit(ctx context.Context, eventType string, request *model.Request) error {
	if r == nil || request == nil {
		return nil
	}
	if r.Store != nil {
		if err := r.Store.Save(ctx, request); err != nil {
			return fmt.Errorf("failed to save request %d: %w", request.ID, err)
		}
	}
	if r.Publisher == nil {
		return nil
	}
	eCtx := &event.Context{
		RunID:     r.RunID,
		EventType: eventType,
		ServiceID: request.ServiceID,
		RequestID: request.ID,
		Worker:    -1,
	}
	if request.Worker != nil {
		eCtx.Worker = request.Worker.Index
	}
	if request.FinishedAt != nil {
		eCtx.TimeTakenMs = int(request.Turnaround().Milliseconds())
	}
	if err := r.Publisher.Publish(ctx, event.NewEvent(eCtx, *request.Clone())); err != nil {
		return fmt.Errorf("failed to publish %v event for request %d: %w", eventType, request.ID, err)
	}
	return nil
}
