// Package model contains the in-memory representation of requests flowing
// through the dispatcher: their identity, routing, resource demand, lifecycle
// state and timing.
//
// A request is created at intake, queued on its service, admitted to exactly
// one worker lane, executed once and completed.  Ownership of a *Request
// moves with it from queue to lane to execution unit; only the current owner
// mutates it.
package model
