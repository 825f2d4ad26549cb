package model

// RequestState represents the current state of a request
type RequestState string

const (
	RequestStateQueued    RequestState = "queued"
	RequestStateAdmitted  RequestState = "admitted"
	RequestStateExecuting RequestState = "executing"
	RequestStateCompleted RequestState = "completed"
	// RequestStateUndeliverable marks a request whose demand exceeds the
	// maximum capacity of every worker in its service.
	RequestStateUndeliverable RequestState = "undeliverable"
)

// IsTerminal reports whether no further transition can happen.
func (s RequestState) IsTerminal() bool {
	return s == RequestStateCompleted || s == RequestStateUndeliverable
}
