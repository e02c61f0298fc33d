package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/modregistry/internal/ctxlog"
	"github.com/vk/modregistry/internal/manifest"
	"github.com/vk/modregistry/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry: the
// core modules are registered and any policy manifest is applied before
// the first lookup can run.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			// A module that cannot register is a programmer error.
			panic(fmt.Errorf("failed to register module: %w", err))
		}
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "records", reg.Count())

	if cfg.ManifestPath != "" {
		m, err := manifest.Load(ctx, cfg.ManifestPath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load policy manifest: %w", err))
		}
		if err := m.Apply(ctx, reg); err != nil {
			panic(fmt.Errorf("failed to apply policy manifest: %w", err))
		}
		logger.Debug("Policy manifest applied.", "policies", len(m.Policies))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
