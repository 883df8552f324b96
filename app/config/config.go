package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/strand/web/server/types"
	"go.hackfix.me/strand/xtime"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server  Server
	Runtime Runtime

	fs   vfs.FileSystem
	path string
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem as JSON. The file
// contains the API token, so it's only readable by its owner.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o600); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address sql.Null[string] `json:"address"`
	// APIToken is the base58 encoded token API clients must send as a Bearer
	// token.
	APIToken sql.Null[string] `json:"api_token"`
	// ErrorLevel is the detail level of error messages returned to clients.
	ErrorLevel sql.Null[types.ErrorLevel] `json:"error_level"`
	// ShutdownTimeout is the maximum amount of time to wait for in-flight
	// requests and jobs to finish when the server stops.
	// It serializes from/to xtime.Duration string values.
	ShutdownTimeout sql.Null[time.Duration] `json:"shutdown_timeout"`
	// Metrics enables the /metrics endpoint.
	Metrics sql.Null[bool] `json:"metrics"`
	// AuditLog is the path to the SQLite database authenticated API requests
	// are recorded in. Requests aren't recorded if it's not set.
	AuditLog sql.Null[string] `json:"audit_log"`
}

// Runtime defines configuration options of the job runtime.
type Runtime struct {
	// Metrics enables collection of job runtime metrics.
	Metrics sql.Null[bool] `json:"metrics"`
}

type cfgWrapper struct {
	Server  srvCfgWrapper `json:"server"`
	Runtime rtCfgWrapper  `json:"runtime"`
}
type srvCfgWrapper struct {
	Address         string `json:"address,omitempty"`
	APIToken        string `json:"api_token,omitempty"`
	ErrorLevel      string `json:"error_level,omitempty"`
	ShutdownTimeout string `json:"shutdown_timeout,omitempty"`
	Metrics         *bool  `json:"metrics,omitempty"`
	AuditLog        string `json:"audit_log,omitempty"`
}
type rtCfgWrapper struct {
	Metrics *bool `json:"metrics,omitempty"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Address.Valid {
		w.Server.Address = c.Server.Address.V
	}
	if c.Server.APIToken.Valid {
		w.Server.APIToken = c.Server.APIToken.V
	}
	if c.Server.ErrorLevel.Valid {
		w.Server.ErrorLevel = string(c.Server.ErrorLevel.V)
	}
	if c.Server.ShutdownTimeout.Valid {
		w.Server.ShutdownTimeout = xtime.FormatDuration(c.Server.ShutdownTimeout.V, time.Second)
	}
	if c.Server.Metrics.Valid {
		w.Server.Metrics = &c.Server.Metrics.V
	}
	if c.Server.AuditLog.Valid {
		w.Server.AuditLog = c.Server.AuditLog.V
	}

	if c.Runtime.Metrics.Valid {
		w.Runtime.Metrics = &c.Runtime.Metrics.V
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types and parse duration strings into time.Duration values.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Address != "" {
		c.Server.Address = sql.Null[string]{V: w.Server.Address, Valid: true}
	}
	if w.Server.APIToken != "" {
		c.Server.APIToken = sql.Null[string]{V: w.Server.APIToken, Valid: true}
	}
	if w.Server.ErrorLevel != "" {
		lvl, err := types.ErrorLevelFromString(w.Server.ErrorLevel)
		if err != nil {
			return err
		}
		c.Server.ErrorLevel = sql.Null[types.ErrorLevel]{V: lvl, Valid: true}
	}
	if w.Server.ShutdownTimeout != "" {
		dur, err := xtime.ParseDuration(w.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("failed parsing server shutdown timeout: %w", err)
		}
		if dur < 0 {
			return fmt.Errorf("invalid server shutdown timeout '%s': must not be negative", w.Server.ShutdownTimeout)
		}
		c.Server.ShutdownTimeout = sql.Null[time.Duration]{V: dur, Valid: true}
	}
	if w.Server.Metrics != nil {
		c.Server.Metrics = sql.Null[bool]{V: *w.Server.Metrics, Valid: true}
	}
	if w.Server.AuditLog != "" {
		c.Server.AuditLog = sql.Null[string]{V: w.Server.AuditLog, Valid: true}
	}

	if w.Runtime.Metrics != nil {
		c.Runtime.Metrics = sql.Null[bool]{V: *w.Runtime.Metrics, Valid: true}
	}

	return nil
}

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if !c.Server.Address.Valid {
		c.Server.Address = sql.Null[string]{V: "localhost:8080", Valid: true}
	}
	if !c.Server.ErrorLevel.Valid {
		c.Server.ErrorLevel = sql.Null[types.ErrorLevel]{V: types.ErrorLevelMinimal, Valid: true}
	}
	if !c.Server.ShutdownTimeout.Valid {
		c.Server.ShutdownTimeout = sql.Null[time.Duration]{V: 30 * time.Second, Valid: true}
	}
	if !c.Server.Metrics.Valid {
		c.Server.Metrics = sql.Null[bool]{V: true, Valid: true}
	}
	if !c.Runtime.Metrics.Valid {
		c.Runtime.Metrics = sql.Null[bool]{V: true, Valid: true}
	}
}
