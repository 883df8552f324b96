// Package job implements the lightweight job abstraction used as the
// alternative representation of asynchronous HTTP pipeline stages.
//
// A Job is a lazy computation: nothing happens until it is started on a
// Runtime, which runs it on its own goroutine and exposes the pending result
// as an async.Task. Jobs receive the context passed to Start, so cancellation
// of an HTTP request reaches both representations through the same signal.
package job
