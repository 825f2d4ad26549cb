package model

import (
	"time"
)

// Request represents a single resource-demanding unit of work
type Request struct {
	ID         int          `json:"id"`
	ServiceID  int          `json:"service"`
	Demand     int          `json:"demand"`
	State      RequestState `json:"state"`
	Worker     *Lane        `json:"worker,omitempty"`
	Attempts   int          `json:"attempts,omitempty"`
	Error      string       `json:"error,omitempty"`
	ArrivalAt  time.Time    `json:"arrivalAt"`
	StartedAt  *time.Time   `json:"startedAt,omitempty"`
	FinishedAt *time.Time   `json:"finishedAt,omitempty"`
}

// Lane identifies the worker a request was admitted to
type Lane struct {
	Index    int `json:"index"`
	Priority int `json:"priority"`
}

// NewRequest creates a queued request
func NewRequest(id, serviceID, demand int, arrivalAt time.Time) *Request {
	return &Request{
		ID:        id,
		ServiceID: serviceID,
		Demand:    demand,
		State:     RequestStateQueued,
		ArrivalAt: arrivalAt,
	}
}

// Admit marks the request as admitted to the given lane
func (r *Request) Admit(lane Lane) {
	r.Worker = &lane
	r.State = RequestStateAdmitted
}

// Retry records a failed admission attempt
func (r *Request) Retry() {
	r.Attempts++
}

// Start marks the request as executing
func (r *Request) Start(at time.Time) {
	r.StartedAt = &at
	r.State = RequestStateExecuting
}

// Complete marks the request as completed
func (r *Request) Complete(at time.Time) {
	r.FinishedAt = &at
	r.State = RequestStateCompleted
}

// Fail marks the request as undeliverable
func (r *Request) Fail(err error) {
	if err != nil {
		r.Error = err.Error()
	}
	r.State = RequestStateUndeliverable
}

// IsCompleted returns true if request finished execution
func (r *Request) IsCompleted() bool {
	return r.State == RequestStateCompleted && r.StartedAt != nil && r.FinishedAt != nil
}

// Waiting returns time between arrival and start, zero when not started
func (r *Request) Waiting() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	return r.StartedAt.Sub(r.ArrivalAt)
}

// Turnaround returns time between arrival and finish, zero when not finished
func (r *Request) Turnaround() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.ArrivalAt)
}

// Clone creates a copy of the request so that the caller can inspect it
// without racing with the owner.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Worker != nil {
		lane := *r.Worker
		clone.Worker = &lane
	}
	if r.StartedAt != nil {
		t := *r.StartedAt
		clone.StartedAt = &t
	}
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		clone.FinishedAt = &t
	}
	return &clone
}
