package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/vectorgrid/internal/config"
	"github.com/specialistvlad/vectorgrid/internal/metrics"
	"github.com/specialistvlad/vectorgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	inR      io.Reader
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *registry.Registry
	metrics  *metrics.Metrics

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Vectors are written to
// outW and logs to logW. modules extend the built-in node kinds.
func NewApp(inR io.Reader, outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.Default(modules...)
	logger.Debug("Node kinds registered.", "modules", len(modules))

	return &App{
		inR:      inR,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.New(),
	}
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
