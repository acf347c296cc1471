// Package tui renders the terminal interface of the wallet client: the
// authentication screens, the balance dashboard and the money-movement
// forms. All server work happens through the service layer via async Bubble
// Tea commands, so the UI never blocks on the network.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/internal/service"
)

type TUI struct {
	services *service.ClientServices
	logger   *logger.Logger
}

func New(services *service.ClientServices, log *logger.Logger) *TUI {
	return &TUI{services: services, logger: log}
}

// Run drives the whole terminal session. It expects Bootstrap to have
// already settled the account state: on a restored session the program opens
// on the dashboard, otherwise on the welcome screen. Returns nil both on a
// user quit and on a normal exit.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.services)

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if result, ok := finalModel.(appModel); ok && result.err != nil {
		t.logger.Debug().Str("func", "TUI.Run").Msg("session ended by user")
	}
	return nil
}
