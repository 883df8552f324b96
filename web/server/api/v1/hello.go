package api

import (
	"context"
	"net/http"

	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/types"
)

// HelloGet responds with a plain text "OK". It runs as a job, so it's only
// started after the request was authenticated.
func (h *Handler) HelloGet(_ handler.JobFunc) handler.JobFunc {
	return func(c *types.Context) job.Job[*types.Context] {
		return func(ctx context.Context) (*types.Context, error) {
			if err := ctx.Err(); err != nil {
				return nil, err //nolint:wrapcheck // Cancellation is handled by the caller.
			}

			c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
			c.Response.WriteHeader(http.StatusOK)
			if _, err := c.Response.Write([]byte("OK")); err != nil {
				return nil, err //nolint:wrapcheck // Write errors are logged by the error handler.
			}

			return c, nil
		}
	}
}
