package cli

import (
	"database/sql"
	"fmt"

	actx "go.hackfix.me/strand/app/context"
	aerrors "go.hackfix.me/strand/app/errors"
	"go.hackfix.me/strand/crypto"
)

// The Init command creates the configuration file, with a new API token and
// default values for all other options. The API token is written to stdout.
type Init struct {
	Address string `help:"[host]:port the web server will listen on."`
	Force   bool   `help:"Replace the API token if Strand is already initialized."`
}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	cfg := appCtx.Config
	if cfg.Server.APIToken.Valid && !c.Force {
		return aerrors.NewWith("Strand is already initialized; use --force to replace the API token",
			"config_file", cfg.Path())
	}

	token, err := crypto.NewToken()
	if err != nil {
		return fmt.Errorf("failed generating API token: %w", err)
	}

	cfg.Server.APIToken = sql.Null[string]{V: token, Valid: true}
	if c.Address != "" {
		cfg.Server.Address = sql.Null[string]{V: c.Address, Valid: true}
	}
	cfg.SetDefaults()

	if err = cfg.Save(); err != nil {
		return err
	}
	appCtx.Logger.Info("saved configuration", "path", cfg.Path())

	_, err = fmt.Fprintln(appCtx.Stdout, token)

	return err //nolint:wrapcheck // This is fine.
}
