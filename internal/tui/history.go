package tui

import (
	"fmt"

	"github.com/avitali/borsellino/models"
)

type historyModel struct {
	idx     int
	loading bool
	status  string
}

func newHistoryModel() historyModel {
	return historyModel{loading: true}
}

func (m historyModel) View(userID int64, txs []models.Transaction) string {
	out := titleStyle.Render("Movimenti") + "\n\n"

	switch {
	case m.loading:
		out += "Caricamento...\n"
	case len(txs) == 0:
		out += "Nessun movimento\n"
	default:
		for i, tx := range txs {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			out += cursor + transactionLine(userID, tx) + "\n"
		}
	}

	if m.status != "" {
		out += "\n" + m.status + "\n"
	}

	out += "\n" + helpStyle.Render("esc indietro  c copia ID  r aggiorna")
	return out
}

// transactionLine renders one history row from the viewer's perspective:
// recharges and incoming transfers show a plus, outgoing transfers a minus.
func transactionLine(userID int64, tx models.Transaction) string {
	sign := "+"
	label := "Ricarica"

	if tx.Type == models.TransactionTransfer {
		if tx.FromUserID != nil && *tx.FromUserID == userID {
			sign = "-"
			label = "Inviato"
		} else {
			label = "Ricevuto"
		}
	}

	line := fmt.Sprintf("%s%s  %s", sign, formatAmount(tx.Amount), label)
	if tx.Description != "" {
		line += "  " + tx.Description
	}
	if !tx.CreatedAt.IsZero() {
		line += "  " + tx.CreatedAt.Format("02/01/2006 15:04")
	}
	return line
}
