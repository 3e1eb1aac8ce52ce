package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krishivikas/assistant/internal/infra/config"
	"github.com/krishivikas/assistant/internal/interface/tui"
)

// HealthChecker reports whether the backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// App encapsulates the terminal program lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	model  tui.Model
	health HealthChecker
}

// NewApp builds the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, model tui.Model, health HealthChecker) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With("component", "bootstrap"),
		model:  model,
		health: health,
	}
}

// Run starts the interface and blocks until it exits or the context is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("interface starting", "backend", a.cfg.Backend.BaseURL)
	a.probeBackend(ctx)

	program := tea.NewProgram(a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
			return nil
		}
		return err
	}
	a.logger.Info("interface stopped")
	return nil
}

// probeBackend pings the backend once in the background. The result is
// only logged; an unreachable backend must not keep the interface from
// starting.
func (a *App) probeBackend(ctx context.Context) {
	if a.health == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := a.health.Health(ctx); err != nil {
			a.logger.Warn("backend health check failed", "error", err)
			return
		}
		a.logger.Info("backend reachable")
	}()
}
