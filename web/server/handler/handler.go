package handler

import (
	"log/slog"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/types"
)

// Func is the continuation of a pipeline: it processes the request and
// eventually resolves to the Context if the request was handled, or to nil if
// it wasn't.
type Func func(*types.Context) *async.Task[*types.Context]

// Handler is a pipeline stage.
type Handler func(next Func) Func

// JobFunc is a Func that resolves through a job.Job instead of an async.Task.
type JobFunc func(*types.Context) job.Job[*types.Context]

// JobHandler is a pipeline stage written against JobFunc continuations.
type JobHandler func(next JobFunc) JobFunc

// ErrorHandler creates the stage that produces the response for a request
// whose pipeline failed with err. It is meant to be registered with the
// server's error handling middleware.
type ErrorHandler func(err error, logger *slog.Logger) Handler

// Skip is a continuation that resolves to nil, signalling that the request
// wasn't handled.
func Skip(*types.Context) *async.Task[*types.Context] {
	return async.FromResult[*types.Context](nil)
}

// EarlyReturn is a continuation that resolves to c, ending the pipeline. It is
// usually the final continuation passed to a pipeline.
func EarlyReturn(c *types.Context) *async.Task[*types.Context] {
	return async.FromResult(c)
}

// SkipJob is the JobFunc equivalent of Skip.
func SkipJob(*types.Context) job.Job[*types.Context] {
	return job.Result[*types.Context](nil)
}

// EarlyReturnJob is the JobFunc equivalent of EarlyReturn.
func EarlyReturnJob(c *types.Context) job.Job[*types.Context] {
	return job.Result(c)
}
