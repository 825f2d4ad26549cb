package pool

import "errors"

var (
	// ErrNoCapacity indicates that no worker currently has enough free
	// capacity; the request may be retried once capacity is credited back.
	ErrNoCapacity = errors.New("pool: no worker with enough free capacity")

	// ErrUndeliverableDemand indicates that the demand exceeds the maximum
	// capacity of every worker, so the request can never be admitted.
	ErrUndeliverableDemand = errors.New("pool: undeliverable demand")

	// ErrNoWorkers is returned when a pool is built without workers.
	ErrNoWorkers = errors.New("pool: no workers")

	// ErrNegativeCapacity is returned for a worker with capacity below zero.
	ErrNegativeCapacity = errors.New("pool: negative capacity")
)
