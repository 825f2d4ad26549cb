// Package executor runs requests admitted to a worker. Every admitted request
// runs on its own goroutine for its service time, after which the capacity it
// holds is credited back to the worker.
package executor
