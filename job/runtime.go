package job

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Runtime schedules jobs. Each started job runs on its own goroutine, and the
// Runtime keeps track of them so that they can be drained on shutdown.
type Runtime struct {
	group   errgroup.Group
	logger  *slog.Logger
	metrics *metrics
}

// NewRuntime returns a new Runtime instance.
func NewRuntime(opts ...Option) (*Runtime, error) {
	rt := &Runtime{}

	opts = append(DefaultOptions(), opts...)
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

func (rt *Runtime) launch(fn func()) {
	// The group has no limit, so Go never blocks.
	rt.group.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until all jobs started so far have finished, or ctx is done.
// Returning early doesn't stop the jobs, and the goroutine waiting for them
// only exits once they've all finished.
func (rt *Runtime) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		_ = rt.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // Cancellation is passed through.
	}
}
