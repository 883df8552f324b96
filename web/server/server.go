package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	actx "go.hackfix.me/strand/app/context"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server/api/v1"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/middleware"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	runtime *job.Runtime
	logger  *slog.Logger
}

// New returns a new web Server instance that will listen on addr.
func New(appCtx *actx.Context, addr string, opts ...Option) (*Server, error) {
	cfg := &config{}
	for _, opt := range append(DefaultOptions(), opts...) {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.runtime == nil {
		return nil, errors.New("job runtime is required")
	}
	if cfg.auth == nil {
		return nil, errors.New("token verifier is required")
	}

	logger := appCtx.Logger.With("component", "web-server")
	h, err := setupHandlers(cfg, logger)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		Server: &http.Server{
			Handler:           h,
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      10 * time.Minute,
		},
		runtime: cfg.runtime,
		logger:  logger,
	}

	return srv, nil
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the system
// (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// Shutdown gracefully stops the server, and then waits for the jobs started by
// request handlers to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	if err := s.runtime.Wait(ctx); err != nil {
		return fmt.Errorf("failed waiting for jobs to finish: %w", err)
	}
	s.logger.Debug("all jobs finished")

	return nil
}

// setupHandlers configures the server HTTP handlers.
func setupHandlers(cfg *config, logger *slog.Logger) (http.Handler, error) {
	mux := http.NewServeMux()
	handleOpts := []middleware.Option{
		middleware.WithLogger(logger),
		middleware.WithErrorHandler(middleware.DefaultErrorHandler(cfg.errorLevel)),
	}

	var apiOpts []api.Option
	if cfg.auditLog != nil {
		apiOpts = append(apiOpts, api.WithAuditLog(cfg.auditLog))
	}
	apiH := api.New(handler.NewBridge(cfg.runtime), cfg.auth, logger, apiOpts...)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiH.SetupHandlers(handleOpts...)))
	mux.Handle("GET /healthz",
		middleware.Handle(handler.Text(http.StatusOK, "OK"), handleOpts...)(http.NotFoundHandler()))

	chain := []any{middleware.RequestID(), middleware.Logger(logger)}

	if cfg.registry != nil {
		mw, err := middleware.Metrics(cfg.registry)
		if err != nil {
			return nil, err
		}
		chain = append(chain, mw)
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{
			ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
		}))
	}

	return middleware.Chain(append(chain, mux)...), nil
}

// Routes returns all routes served by the server, including the API routes.
func Routes(metrics bool) []api.Route {
	routes := []api.Route{{
		Method:      http.MethodGet,
		Path:        "/healthz",
		Description: "Report that the server is up.",
	}}
	if metrics {
		routes = append(routes, api.Route{
			Method:      http.MethodGet,
			Path:        "/metrics",
			Description: "Expose Prometheus metrics.",
		})
	}

	for _, r := range api.Routes() {
		r.Path = "/api/v1" + r.Path
		routes = append(routes, r)
	}

	return routes
}
