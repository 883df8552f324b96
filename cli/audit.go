package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	actx "go.hackfix.me/strand/app/context"
	"go.hackfix.me/strand/db"
	"go.hackfix.me/strand/db/models"
	"go.hackfix.me/strand/db/types"
)

// The Audit command lists the API requests recorded in the audit log.
type Audit struct {
	Limit    int    `default:"20" help:"Maximum number of requests to list, newest first. 0 lists all requests."`
	Method   string `help:"Only list requests with this HTTP method."`
	AuditLog string `help:"Path to the SQLite audit log database. Default: the configured path."`
}

// Run the audit command.
func (c *Audit) Run(appCtx *actx.Context) error {
	if c.AuditLog == "" {
		c.AuditLog = appCtx.Config.Server.AuditLog.V
	}
	if c.AuditLog == "" {
		return errors.New("no audit log configured")
	}
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", c.Limit)
	}

	d, err := db.Open(appCtx.Ctx, c.AuditLog, appCtx.TimeNow, appCtx.Logger)
	if err != nil {
		return fmt.Errorf("failed opening audit log: %w", err)
	}
	defer d.Close()

	filter := &types.Filter{Where: "1=1", Limit: c.Limit}
	if c.Method != "" {
		filter = filter.And(types.NewFilter("r.method = ?", []any{strings.ToUpper(c.Method)}))
	}

	reqs, err := models.Requests(appCtx.Ctx, d, filter)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	data := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		data = append(data, []string{
			r.CreatedAt.Local().Format(time.DateTime), r.RequestID, r.Method, r.Path, r.RemoteAddr,
		})
	}

	if err = renderTable([]string{"Time", "Request ID", "Method", "Path", "Remote Address"}, data, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering audit table: %w", err)
	}

	return nil
}
