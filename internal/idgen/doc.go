// Package idgen hands out identifiers: opaque run/event identifiers backed by
// UUIDs and dense, monotonically increasing request identifiers. It lives
// under `internal` so that callers treat identifiers as values, not as an API.
package idgen
