package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/types"
)

func newTestContext(t *testing.T, method, target string) (*types.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	return types.NewContext(rec, req, "test", slog.New(slog.DiscardHandler)), rec
}

func newTestBridge(t *testing.T) *handler.Bridge {
	t.Helper()
	rt, err := job.NewRuntime(job.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Wait(ctx)
	})
	return handler.NewBridge(rt)
}

func await(t *testing.T, task *async.Task[*types.Context]) (*types.Context, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return task.Await(ctx)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	errTest := errors.New("test error")

	tests := []struct {
		name    string
		result  func(c *types.Context) (*types.Context, error)
		expSame bool
		expErr  error
	}{
		{
			name:    "ok/handled",
			result:  func(c *types.Context) (*types.Context, error) { return c, nil },
			expSame: true,
		},
		{
			name:   "ok/skipped",
			result: func(*types.Context) (*types.Context, error) { return nil, nil },
		},
		{
			name:   "err/failed",
			result: func(*types.Context) (*types.Context, error) { return nil, errTest },
			expErr: errTest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := newTestBridge(t)

			t.Run("base_alt_base", func(t *testing.T) {
				t.Parallel()
				c, _ := newTestContext(t, http.MethodGet, "/")
				var f handler.Func = func(c *types.Context) *async.Task[*types.Context] {
					return async.Go(func() (*types.Context, error) { return tt.result(c) })
				}

				expRes, expErr := await(t, f(c))
				res, err := await(t, b.LowerFunc(handler.LiftFunc(f))(c))
				assert.Equal(t, expErr, err)
				assert.Equal(t, expRes, res)
				if tt.expErr != nil {
					assert.Same(t, tt.expErr, err)
				}
				if tt.expSame {
					assert.Same(t, c, res)
				} else {
					assert.Nil(t, res)
				}
			})

			t.Run("alt_base_alt", func(t *testing.T) {
				t.Parallel()
				c, _ := newTestContext(t, http.MethodGet, "/")
				var f handler.JobFunc = func(c *types.Context) job.Job[*types.Context] {
					return func(context.Context) (*types.Context, error) { return tt.result(c) }
				}

				rt := b.Runtime()
				expRes, expErr := await(t, job.Start(c.Context(), rt, f(c)))
				res, err := await(t, job.Start(c.Context(), rt, handler.LiftFunc(b.LowerFunc(f))(c)))
				assert.Equal(t, expErr, err)
				assert.Equal(t, expRes, res)
				if tt.expSame {
					assert.Same(t, c, res)
				} else {
					assert.Nil(t, res)
				}
			})
		})
	}
}

func TestRoundTripSideEffects(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	c, rec := newTestContext(t, http.MethodGet, "/")

	var f handler.Func = func(c *types.Context) *async.Task[*types.Context] {
		c.Response.Header().Set("X-Stage", "base")
		c.Set("key", "value")
		return handler.EarlyReturn(c)
	}

	res, err := await(t, b.LowerFunc(handler.LiftFunc(f))(c))
	require.NoError(t, err)
	assert.Same(t, c, res)
	assert.Equal(t, "base", rec.Header().Get("X-Stage"))
	v, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestLiftFuncIsLazy(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	c, _ := newTestContext(t, http.MethodGet, "/")

	var calls int
	j := handler.LiftFunc(func(c *types.Context) *async.Task[*types.Context] {
		calls++
		return handler.EarlyReturn(c)
	})(c)
	assert.Equal(t, 0, calls)

	res, err := await(t, b.LowerResult(c.Context(), j))
	require.NoError(t, err)
	assert.Same(t, c, res)
	assert.Equal(t, 1, calls)
}

func TestErrorPropagation(t *testing.T) {
	t.Parallel()

	errTest := errors.New("test error")

	t.Run("err/lift_func", func(t *testing.T) {
		t.Parallel()
		b := newTestBridge(t)
		c, _ := newTestContext(t, http.MethodGet, "/")
		f := handler.LiftFunc(func(*types.Context) *async.Task[*types.Context] {
			return async.FromError[*types.Context](errTest)
		})

		res, err := await(t, job.Start(c.Context(), b.Runtime(), f(c)))
		require.Error(t, err)
		assert.Same(t, errTest, err)
		assert.Nil(t, res)
	})

	t.Run("err/lower_func", func(t *testing.T) {
		t.Parallel()
		b := newTestBridge(t)
		c, _ := newTestContext(t, http.MethodGet, "/")
		f := b.LowerFunc(func(*types.Context) job.Job[*types.Context] {
			return job.Fail[*types.Context](errTest)
		})

		res, err := await(t, f(c))
		require.Error(t, err)
		assert.Same(t, errTest, err)
		assert.Nil(t, res)
	})

	t.Run("err/lift_func_panic", func(t *testing.T) {
		t.Parallel()
		b := newTestBridge(t)
		c, _ := newTestContext(t, http.MethodGet, "/")
		f := handler.LiftFunc(func(*types.Context) *async.Task[*types.Context] {
			panic("boom")
		})

		task := job.Start(c.Context(), b.Runtime(), f(c))
		assert.PanicsWithValue(t, "boom", func() { _, _ = await(t, task) })
	})

	t.Run("err/lower_func_panic", func(t *testing.T) {
		t.Parallel()
		b := newTestBridge(t)
		c, _ := newTestContext(t, http.MethodGet, "/")
		f := b.LowerFunc(func(*types.Context) job.Job[*types.Context] {
			return func(context.Context) (*types.Context, error) {
				panic("boom")
			}
		})

		task := f(c)
		assert.PanicsWithValue(t, "boom", func() { _, _ = await(t, task) })
	})
}

func TestLowerResultNonBlocking(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	never := func(ctx context.Context) (*types.Context, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	returned := make(chan *async.Task[*types.Context], 1)
	go func() {
		returned <- b.LowerResult(ctx, never)
	}()

	select {
	case task := <-returned:
		assert.False(t, task.Completed())
	case <-time.After(time.Second):
		t.Fatal("LowerResult blocked the caller")
	}
}

func TestLowerFuncCancellation(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t)
	rec := httptest.NewRecorder()
	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(reqCtx)
	c := types.NewContext(rec, req, "test", slog.New(slog.DiscardHandler))

	f := b.LowerFunc(func(*types.Context) job.Job[*types.Context] {
		return func(ctx context.Context) (*types.Context, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
	})

	task := f(c)
	cancel()

	_, err := await(t, task)
	require.ErrorIs(t, err, context.Canceled)
}
