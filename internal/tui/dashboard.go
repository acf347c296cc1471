package tui

import (
	"fmt"

	"github.com/avitali/borsellino/models"
)

type dashboardModel struct {
	items  []string
	idx    int
	status string
}

func newDashboardModel() dashboardModel {
	return dashboardModel{
		items: []string{"Invia denaro", "Ricarica", "Movimenti", "Le mie carte"},
	}
}

func (m dashboardModel) View(profile models.User, ok bool) string {
	out := titleStyle.Render("Borsellino") + "\n\n"

	if ok {
		name := profile.FullName
		if name == "" {
			name = profile.Email
		}
		out += "Ciao, " + name + "\n"
		out += "Saldo: " + balanceStyle.Render(formatAmount(profile.Balance)) + "\n\n"
	} else {
		out += "Caricamento profilo...\n\n"
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		out += cursor + item + "\n"
	}

	if m.status != "" {
		out += "\n" + m.status + "\n"
	}

	out += "\n" + helpStyle.Render("r aggiorna  l esci dall'account  q esci")
	return out
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}
