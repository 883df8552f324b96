package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nrednav/cuid2"

	aerrors "go.hackfix.me/strand/app/errors"
	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/types"
)

// Handle runs the handler pipeline h for every request. The pipeline ends
// with handler.EarlyReturn as its final continuation.
//
// If the pipeline doesn't handle the request, i.e. it resolves to nil, the
// request is passed to the next http.Handler. If the pipeline fails with an
// error or panics, the response is produced by the pipeline created by the
// configured handler.ErrorHandler.
func Handle(h handler.Handler, opts ...Option) Middleware {
	cfg := &config{}
	for _, opt := range append(DefaultOptions(), opts...) {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		run := h(handler.EarlyReturn)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetRequestID(r.Context())
			if id == "" {
				id = cuid2.Generate()
			}
			c := types.NewContext(w, r, id, cfg.logger.With("request_id", id))

			res, err := await(c, run)
			if err != nil {
				if c.Context().Err() != nil && errors.Is(err, c.Context().Err()) {
					c.Logger.Debug("request canceled", "error", err.Error())
					return
				}

				res, err = await(c, cfg.errorHandler(err, c.Logger)(handler.EarlyReturn))
				if err != nil {
					aerrors.Log(c.Logger, aerrors.NewWithCause("failed handling pipeline error", err))
					if !c.Response.HasStarted() {
						http.Error(c.Response, http.StatusText(http.StatusInternalServerError),
							http.StatusInternalServerError)
					}
					return
				}
			}

			if res == nil {
				next.ServeHTTP(c.Response.Writer(), r)
			}
		})
	}
}

// await runs f and waits for its result. A panic is turned into an error, so
// that it can be handled by an ErrorHandler.
func await(c *types.Context, f handler.Func) (res *types.Context, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		//nolint:errorlint,err113 // Comparing the sentinel value is intended.
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		res = nil
		err = aerrors.NewWith(fmt.Sprintf("panic: %v", rec), "panic", rec)
	}()

	return f(c).Await(c.Context())
}

// DefaultErrorHandler returns an ErrorHandler that logs the error, and
// responds with a JSON error whose message is sanitized according to lvl.
// Nothing is written if the response has already started.
func DefaultErrorHandler(lvl types.ErrorLevel) handler.ErrorHandler {
	return func(err error, logger *slog.Logger) handler.Handler {
		return func(next handler.Func) handler.Func {
			return func(c *types.Context) *async.Task[*types.Context] {
				aerrors.Log(logger, aerrors.WithCause(
					errors.New("request pipeline failed"), err,
					"method", c.Request.Method, "path", c.Request.URL.Path,
				))

				if c.Response.HasStarted() {
					return handler.EarlyReturn(c)
				}

				return handler.HTTPError(types.ToHTTPError(err, lvl))(next)(c)
			}
		}
	}
}

type config struct {
	logger       *slog.Logger
	errorHandler handler.ErrorHandler
}

// Option is a function that allows configuring the Handle middleware.
type Option func(*config)

// WithLogger sets the logger passed to pipeline stages through the Context.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithErrorHandler sets the ErrorHandler used for failed pipelines.
func WithErrorHandler(eh handler.ErrorHandler) Option {
	return func(cfg *config) {
		cfg.errorHandler = eh
	}
}

// DefaultOptions returns the default Handle options.
func DefaultOptions() []Option {
	return []Option{
		WithLogger(slog.Default()),
		WithErrorHandler(DefaultErrorHandler(types.ErrorLevelMinimal)),
	}
}
