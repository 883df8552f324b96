package handler

import (
	"context"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/types"
)

// LiftResult converts a task into a job that resolves to the same value, or
// fails with the same error.
func LiftResult(t *async.Task[*types.Context]) job.Job[*types.Context] {
	return job.Await(t)
}

// LiftFunc converts f into a JobFunc. f is only called once the returned job
// runs.
func LiftFunc(f Func) JobFunc {
	return func(c *types.Context) job.Job[*types.Context] {
		return job.Of(func() *async.Task[*types.Context] {
			return f(c)
		})
	}
}

// Bridge converts JobFunc and JobHandler values into their Func and Handler
// equivalents, which requires a runtime to start the jobs on.
type Bridge struct {
	rt *job.Runtime
}

// NewBridge returns a new Bridge that starts jobs on rt.
func NewBridge(rt *job.Runtime) *Bridge {
	return &Bridge{rt: rt}
}

// Runtime returns the runtime jobs are started on.
func (b *Bridge) Runtime() *job.Runtime {
	return b.rt
}

// LowerResult starts j and returns a task representing its result. It doesn't
// wait for j to complete.
func (b *Bridge) LowerResult(ctx context.Context, j job.Job[*types.Context]) *async.Task[*types.Context] {
	return job.Start(ctx, b.rt, j)
}

// LowerFunc converts f into a Func. The jobs produced by f are started with the
// context of the request, so that they're canceled together with it.
func (b *Bridge) LowerFunc(f JobFunc) Func {
	return func(c *types.Context) *async.Task[*types.Context] {
		return b.LowerResult(c.Context(), f(c))
	}
}

// LiftHandler converts h into a JobHandler.
func (b *Bridge) LiftHandler(h Handler) JobHandler {
	return func(next JobFunc) JobFunc {
		return LiftFunc(h(b.LowerFunc(next)))
	}
}

// LowerHandler converts h into a Handler.
func (b *Bridge) LowerHandler(h JobHandler) Handler {
	return func(next Func) Func {
		return b.LowerFunc(h(LiftFunc(next)))
	}
}
