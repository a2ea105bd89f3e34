// Package upstream builds the interaction-data client from configuration.
package upstream

import (
	"fmt"

	"github.com/turtacn/interactome/internal/config"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/client"
)

// NewClient returns a client for cfg.  The base URL is required.
func NewClient(cfg config.UpstreamConfig, log logging.Logger) (*client.Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream: base_url is not configured")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	opts := []client.Option{
		client.WithLogger(LoggerAdapter{log.Named("upstream")}),
		client.WithPaths(client.Paths{
			Atom:      cfg.AtomPath,
			Residue:   cfg.ResiduePath,
			Viewer:    cfg.ViewerPath,
			Structure: cfg.StructurePath,
		}),
		client.WithRetryMax(cfg.RetryMax),
	}
	if cfg.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.Timeout))
	}
	if cfg.RetryWait > 0 {
		opts = append(opts, client.WithRetryWait(cfg.RetryWait, 10*cfg.RetryWait))
	}
	return client.NewClient(cfg.BaseURL, opts...)
}

// LoggerAdapter lets the printf-style client log through a structured Logger.
type LoggerAdapter struct {
	Logger logging.Logger
}

func (a LoggerAdapter) Debugf(format string, args ...interface{}) {
	a.Logger.Debug(fmt.Sprintf(format, args...))
}

func (a LoggerAdapter) Infof(format string, args ...interface{}) {
	a.Logger.Info(fmt.Sprintf(format, args...))
}

func (a LoggerAdapter) Errorf(format string, args ...interface{}) {
	a.Logger.Error(fmt.Sprintf(format, args...))
}

//Personal.AI order the ending
