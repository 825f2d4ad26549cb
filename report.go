package dispatchor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/viant/dispatchor/model"
)

// Report summarises a finished run
type Report struct {
	RunID         string    `json:"runID"`
	StartedAt     time.Time `json:"startedAt"`
	Order         []int     `json:"order"`
	Submitted     int       `json:"submitted"`
	Rejected      int       `json:"rejected"`
	ForcedWaits   int       `json:"forcedWaits"`
	Undeliverable int       `json:"undeliverable"`
	Completed     int       `json:"completed"`
	// Requests lists completed requests by ID
	Requests          []*RequestTiming `json:"requests"`
	Failed            []*model.Request `json:"failed,omitempty"`
	AverageWaiting    time.Duration    `json:"averageWaiting"`
	AverageTurnaround time.Duration    `json:"averageTurnaround"`
}

// RequestTiming holds timings of a completed request
type RequestTiming struct {
	ID         int           `json:"id"`
	ServiceID  int           `json:"service"`
	Demand     int           `json:"demand"`
	Worker     model.Lane    `json:"worker"`
	Attempts   int           `json:"attempts,omitempty"`
	Waiting    time.Duration `json:"waiting"`
	Turnaround time.Duration `json:"turnaround"`
}

// Report returns the run summary; it is available once the runtime stopped
func (r *Runtime) Report(ctx context.Context) (*Report, error) {
	if !r.Stopped() {
		return nil, ErrNotStopped
	}
	snapshot := r.tracker.Snapshot()
	ret := &Report{
		RunID:         snapshot.RunID,
		StartedAt:     snapshot.StartedAt,
		Order:         snapshot.Order,
		Submitted:     snapshot.Submitted,
		Rejected:      snapshot.Rejected,
		ForcedWaits:   snapshot.ForcedWaits,
		Undeliverable: snapshot.Undeliverable,
		Completed:     snapshot.Completed,
	}
	if ret.Order == nil {
		ret.Order = []int{}
	}
	requests, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	var waiting, turnaround time.Duration
	for _, request := range requests {
		switch {
		case request.IsCompleted():
			timing := &RequestTiming{
				ID:         request.ID,
				ServiceID:  request.ServiceID,
				Demand:     request.Demand,
				Attempts:   request.Attempts,
				Waiting:    request.Waiting(),
				Turnaround: request.Turnaround(),
			}
			if request.Worker != nil {
				timing.Worker = *request.Worker
			}
			waiting += timing.Waiting
			turnaround += timing.Turnaround
			ret.Requests = append(ret.Requests, timing)
		case request.State == model.RequestStateUndeliverable:
			ret.Failed = append(ret.Failed, request)
		}
	}
	if count := len(ret.Requests); count > 0 {
		ret.AverageWaiting = waiting / time.Duration(count)
		ret.AverageTurnaround = turnaround / time.Duration(count)
	}
	return ret, nil
}

// Write prints the report in console layout
func (r *Report) Write(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("Order of requests executed: ")
	for _, id := range r.Order {
		fmt.Fprintf(&sb, "%d ", id)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Number of rejected requests: %d\n", r.Rejected)
	fmt.Fprintf(&sb, "Number of forced waits: %d\n", r.ForcedWaits)
	if r.Undeliverable > 0 {
		fmt.Fprintf(&sb, "Number of undeliverable requests: %d\n", r.Undeliverable)
	}
	for _, request := range r.Requests {
		fmt.Fprintf(&sb, "Request ID: %d, Waiting Time: %dms, Turnaround Time: %dms\n",
			request.ID, request.Waiting.Milliseconds(), request.Turnaround.Milliseconds())
	}
	for _, request := range r.Failed {
		fmt.Fprintf(&sb, "Request ID: %d, Demand: %d - %s\n", request.ID, request.Demand, request.Error)
	}
	if len(r.Requests) > 0 {
		fmt.Fprintf(&sb, "Average Waiting Time: %dms\n", r.AverageWaiting.Milliseconds())
		fmt.Fprintf(&sb, "Average Turnaround Time: %dms\n", r.AverageTurnaround.Milliseconds())
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
