// Package pool holds the resource-capacitated worker lanes of a single
// service.  Workers are ordered once by ascending priority rank; admission
// always walks that order and picks the first lane with enough free capacity.
//
// Every capacity change happens under the owning worker's lock: a debit is
// performed together with the insertion into the worker's execution queue,
// and a credit happens when an execution unit finishes.
package pool
