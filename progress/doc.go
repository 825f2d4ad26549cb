// Package progress keeps the process-wide dispatch counters: rejected
// requests, forced waits, undeliverable requests and the execution-order
// log.  The counters live behind their own lock, independent from any
// service or worker lock.
package progress
