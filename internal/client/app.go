package client

import (
	"context"
	"errors"

	"github.com/avitali/borsellino/internal/config"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/internal/service"
	"github.com/avitali/borsellino/internal/tui"
)

type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	workers  config.ClientWorkers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui *tui.TUI, workers config.ClientWorkers, log *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app: services and ui are required")
	}
	return &App{services: services, tui: ui, workers: workers, logger: log}, nil
}

// Run implements [Client]. It restores the previous session before the UI
// comes up, so the first frame already shows either the dashboard or the
// welcome screen, then keeps the profile fresh in the background until the
// user exits.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.services.Auth.Bootstrap(ctx); err != nil {
		// The session settled on anonymous; the UI starts at the welcome
		// screen and the user logs in by hand.
		a.logger.Warn().Err(err).Str("func", "App.Run").Msg("session restore failed, starting anonymous")
	}

	a.services.RefreshJob.Start(ctx, a.workers.RefreshInterval)
	defer a.services.RefreshJob.Stop()

	if err := a.tui.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}
