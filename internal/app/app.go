package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/macroport/internal/config"
	"github.com/vk/macroport/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp builds an App with its own logger writing to logW and the tables
// loaded through loader from the built-in defaults and cfg.Profiles.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.Profiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	logger.Debug("Tables loaded.", "profiles", len(cfg.Profiles))

	return &App{logger: logger, config: cfg, model: model}, nil
}

// Model returns the loaded tables. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
