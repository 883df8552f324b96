package async

import (
	"context"
	"errors"
	"sync"
)

// ErrGoexit is the error a Task fails with when its computation called
// runtime.Goexit instead of returning.
var ErrGoexit = errors.New("computation exited without returning")

// Task is a computation that was started eagerly and will eventually resolve
// to a value of type T or fail with an error. It is safe to await a Task from
// multiple goroutines.
type Task[T any] struct {
	done chan struct{}
	once sync.Once

	val T
	err error

	// A panic raised inside the computation is stored here, and re-raised in
	// every goroutine that awaits the result.
	panicked bool
	panicVal any
}

// Go starts fn on a new goroutine and returns a Task that resolves to its
// result. It never blocks the caller.
func Go[T any](fn func() (T, error)) *Task[T] {
	return GoWith(func(f func()) { go f() }, fn)
}

// GoWith is like Go, but hands the computation to launch, which decides where
// it runs. launch must not block, and must eventually call the function it
// receives exactly once.
func GoWith[T any](launch func(func()), fn func() (T, error)) *Task[T] {
	t := newTask[T]()
	launch(func() { t.run(fn) })
	return t
}

// Run starts a future-producing callable on a new goroutine, and returns a
// Task that resolves to the result of the future it produced. If ctx is done
// before that future completes, the Task fails with the context error.
func Run[T any](ctx context.Context, fn func() *Task[T]) *Task[T] {
	return Go(func() (T, error) {
		return fn().Await(ctx)
	})
}

// FromResult returns an already completed Task resolving to v.
func FromResult[T any](v T) *Task[T] {
	t := newTask[T]()
	t.complete(v, nil)
	return t
}

// FromError returns an already completed Task that failed with err.
func FromError[T any](err error) *Task[T] {
	var zero T
	t := newTask[T]()
	t.complete(zero, err)
	return t
}

// Pending returns a Task that never completes. Useful for tests and for
// signalling a computation that was handed off elsewhere.
func Pending[T any]() *Task[T] {
	return newTask[T]()
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func (t *Task[T]) run(fn func() (T, error)) {
	var (
		val      T
		err      error
		finished bool
	)
	defer func() {
		if finished {
			return
		}
		// fn panicked or called runtime.Goexit. recover here keeps the process
		// alive, the value is handed to whoever awaits the task. Since Go 1.21
		// panic(nil) recovers a *runtime.PanicNilError, so nil means Goexit.
		r := recover()
		if r == nil {
			var zero T
			t.complete(zero, ErrGoexit)
			return
		}
		t.once.Do(func() {
			t.panicked = true
			t.panicVal = r
			close(t.done)
		})
	}()

	val, err = fn()
	finished = true
	t.complete(val, err)
}

func (t *Task[T]) complete(val T, err error) {
	t.once.Do(func() {
		t.val = val
		t.err = err
		close(t.done)
	})
}

// Done returns a channel that is closed when the task completes.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Completed reports whether the task has finished, successfully or not.
func (t *Task[T]) Completed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Await blocks until the task completes or ctx is done. The error returned by
// the computation is returned as is. If the computation panicked, Await panics
// with the same value.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		// Prefer a result that is already available.
		select {
		case <-t.done:
		default:
			var zero T
			return zero, ctx.Err() //nolint:wrapcheck // Cancellation is passed through.
		}
	}

	if t.panicked {
		panic(t.panicVal)
	}

	return t.val, t.err
}
