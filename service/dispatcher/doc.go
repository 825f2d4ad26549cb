// Package dispatcher admits the requests of one service to its workers.
//
// Requests are taken from the service queue in FIFO order and offered to the
// workers in ascending priority order; the first worker with enough available
// capacity receives the request. A request no worker can take right now goes
// back to the tail of the queue and counts as a forced wait. After a whole
// queue cycle without an admission the dispatcher sleeps until capacity is
// credited back, a new request arrives or the retry interval elapses.
package dispatcher
