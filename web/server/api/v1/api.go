package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.hackfix.me/strand/db/models"
	dbtypes "go.hackfix.me/strand/db/types"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/middleware"
	"go.hackfix.me/strand/web/server/types"
)

// Route describes an API endpoint.
type Route struct {
	Method      string
	Path        string
	Auth        bool
	Description string
}

// Pattern returns the http.ServeMux pattern of the route.
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Routes returns the API routes, with paths relative to the API root.
func Routes() []Route {
	return []Route{
		{
			Method:      http.MethodGet,
			Path:        "/hello",
			Auth:        true,
			Description: "Respond with OK.",
		},
		{
			Method:      http.MethodPost,
			Path:        "/echo",
			Auth:        true,
			Description: "Respond with the message sent in the request body.",
		},
	}
}

// Handler is the API endpoint handler.
type Handler struct {
	bridge   *handler.Bridge
	auth     handler.TokenVerifier
	logger   *slog.Logger
	auditLog dbtypes.Querier
}

// Option configures optional Handler features.
type Option func(*Handler)

// WithAuditLog stores a record of every authenticated request in d.
func WithAuditLog(d dbtypes.Querier) Option {
	return func(h *Handler) {
		h.auditLog = d
	}
}

// New returns a new API Handler. Jobs started by its endpoints run on the
// runtime of b, and requests are authenticated with auth.
func New(b *handler.Bridge, auth handler.TokenVerifier, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{bridge: b, auth: auth, logger: logger}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// SetupHandlers configures the web API handlers. Every route runs its handler
// pipeline with the Handle middleware configured by opts.
func (h *Handler) SetupHandlers(opts ...middleware.Option) http.Handler {
	mux := http.NewServeMux()
	opts = append([]middleware.Option{middleware.WithLogger(h.logger)}, opts...)

	pipelines := h.pipelines()
	for _, r := range Routes() {
		mux.Handle(r.Pattern(), middleware.Handle(pipelines[r.Pattern()], opts...)(http.NotFoundHandler()))
	}

	return mux
}

func (h *Handler) pipelines() map[string]handler.Handler {
	authn := handler.BearerAuth(h.auth)

	return map[string]handler.Handler{
		"GET /hello": h.bridge.ComposeLeftBaseRightAltToBase(authn,
			h.bridge.ComposeBothAlt(h.audit, h.HelloGet)),
		"POST /echo": handler.NewPipeline(h.bridge).
			Handle(authn).
			HandleJob(h.audit).
			Handle(handler.BindJSON(h.EchoPost)).
			Build(),
	}
}

// audit logs authenticated requests before they're handled, and stores them
// in the audit log if one is configured. A request whose record can't be
// stored isn't handled.
func (h *Handler) audit(next handler.JobFunc) handler.JobFunc {
	return func(c *types.Context) job.Job[*types.Context] {
		return func(ctx context.Context) (*types.Context, error) {
			c.Logger.Info("authenticated API request",
				"method", c.Request.Method, "path", c.Request.URL.Path)

			if h.auditLog != nil {
				rec := &models.Request{
					RequestID:  c.ID,
					Method:     c.Request.Method,
					Path:       c.Request.URL.Path,
					RemoteAddr: c.Request.RemoteAddr,
				}
				if err := rec.Save(ctx, h.auditLog); err != nil {
					return nil, fmt.Errorf("failed storing audit record: %w", err)
				}
			}

			return next(c)(ctx)
		}
	}
}
