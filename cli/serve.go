package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"go.hackfix.me/strand/app/config"
	actx "go.hackfix.me/strand/app/context"
	"go.hackfix.me/strand/crypto"
	"go.hackfix.me/strand/db"
	"go.hackfix.me/strand/job"
	"go.hackfix.me/strand/web/server"
	stypes "go.hackfix.me/strand/web/server/types"
)

// Serve starts the web server.
type Serve struct {
	Address string `arg:"" optional:"" help:"[host]:port to listen on. Default: the configured address."`
	//nolint:lll // Long struct tags are unavoidable.
	ErrorLevel      string        `help:"Detail level of error messages returned to clients, in order to avoid leaking sensitive information. This doesn't affect response status codes. Valid values: none, minimal, full. Default: the configured level."`
	ShutdownTimeout time.Duration `type:"xduration" help:"Maximum time to wait for in-flight requests and jobs on shutdown. Default: the configured timeout."`
	AuditLog        string        `help:"Path to the SQLite database authenticated API requests are recorded in. Default: the configured path."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	cfg := appCtx.Config
	cfg.SetDefaults()
	c.applyConfig(cfg)

	token := cfg.Server.APIToken.V
	if appCtx.Env != nil {
		if envToken := appCtx.Env.Get(actx.EnvAPIToken); envToken != "" {
			token = envToken
		}
	}
	if token == "" {
		return errors.New("no API token configured; run 'strand init' first")
	}
	verifier, err := crypto.NewTokenVerifier(token)
	if err != nil {
		return fmt.Errorf("invalid API token: %w", err)
	}

	errLvl, err := stypes.ErrorLevelFromString(c.ErrorLevel)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rtOpts := []job.Option{job.WithLogger(appCtx.Logger)}
	if cfg.Runtime.Metrics.V {
		rtOpts = append(rtOpts, job.WithRegisterer(reg))
	}
	rt, err := job.NewRuntime(rtOpts...)
	if err != nil {
		return err
	}

	srvOpts := []server.Option{
		server.WithRuntime(rt),
		server.WithTokenVerifier(verifier),
		server.WithErrorLevel(errLvl),
	}
	if cfg.Server.Metrics.V {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		srvOpts = append(srvOpts, server.WithMetrics(reg))
	}

	if c.AuditLog != "" {
		d, err := db.Open(appCtx.Ctx, c.AuditLog, appCtx.TimeNow, appCtx.Logger)
		if err != nil {
			return fmt.Errorf("failed opening audit log: %w", err)
		}
		defer d.Close()
		srvOpts = append(srvOpts, server.WithAuditLog(d))
	}

	srv, err := server.New(appCtx, c.Address, srvOpts...)
	if err != nil {
		return err
	}

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error, 1)
	go func() {
		srvErr := srv.ListenAndServe()
		slog.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		slog.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		slog.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx) //nolint:wrapcheck // Already wrapped.
}

// applyConfig applies configuration values to the command, but only if they
// weren't already set.
func (c *Serve) applyConfig(cfg *config.Config) {
	if c.Address == "" {
		c.Address = cfg.Server.Address.V
	}
	if c.ErrorLevel == "" {
		c.ErrorLevel = string(cfg.Server.ErrorLevel.V)
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = cfg.Server.ShutdownTimeout.V
	}
	if c.AuditLog == "" {
		c.AuditLog = cfg.Server.AuditLog.V
	}
}
