package job

import (
	"context"

	"go.hackfix.me/strand/async"
)

// Job is a lazy computation that produces a value of type T when run.
type Job[T any] func(ctx context.Context) (T, error)

// Of creates a Job from a future-producing callable. fn is only called once
// the job runs, and the job resolves to the result of the future fn returns.
func Of[T any](fn func() *async.Task[T]) Job[T] {
	return func(ctx context.Context) (T, error) {
		return fn().Await(ctx)
	}
}

// Await creates a Job that waits for an already started task.
func Await[T any](t *async.Task[T]) Job[T] {
	return func(ctx context.Context) (T, error) {
		return t.Await(ctx)
	}
}

// Result creates a Job that resolves to v without doing any work.
func Result[T any](v T) Job[T] {
	return func(context.Context) (T, error) {
		return v, nil
	}
}

// Fail creates a Job that fails with err.
func Fail[T any](err error) Job[T] {
	return func(context.Context) (T, error) {
		var zero T
		return zero, err
	}
}

// Start runs j on rt and returns a Task representing its pending result. It
// returns immediately; the job itself runs on a goroutine managed by rt.
func Start[T any](ctx context.Context, rt *Runtime, j Job[T]) *async.Task[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return async.GoWith(rt.launch, func() (T, error) {
		rt.metrics.started()
		returned := false
		defer func() {
			if returned {
				return
			}
			r := recover()
			if r == nil {
				// The job called runtime.Goexit, and the task fails with
				// async.ErrGoexit.
				rt.metrics.finished(async.ErrGoexit)
				return
			}
			rt.metrics.panicked()
			rt.logger.Debug("job panicked", "panic", r)
			panic(r)
		}()

		val, err := j(ctx)
		returned = true
		rt.metrics.finished(err)

		return val, err
	})
}
