package cli

import (
	"fmt"

	actx "go.hackfix.me/strand/app/context"
	"go.hackfix.me/strand/web/server"
)

// The Routes command lists the routes served by the web server.
type Routes struct{}

// Run the routes command.
func (c *Routes) Run(appCtx *actx.Context) error {
	cfg := appCtx.Config
	cfg.SetDefaults()

	routes := server.Routes(cfg.Server.Metrics.V)
	data := make([][]string, 0, len(routes))
	for _, r := range routes {
		auth := "no"
		if r.Auth {
			auth = "yes"
		}
		data = append(data, []string{r.Method, r.Path, auth, r.Description})
	}

	if err := renderTable([]string{"Method", "Path", "Auth", "Description"}, data, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering routes table: %w", err)
	}

	return nil
}
