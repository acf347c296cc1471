package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

type transferModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newTransferModel() transferModel {
	email := textinput.New()
	email.Placeholder = "destinatario@example.com"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	amount := textinput.New()
	amount.Placeholder = "0,00"
	amount.CharLimit = 12
	amount.Width = 40

	description := textinput.New()
	description.Placeholder = "facoltativa"
	description.CharLimit = 255
	description.Width = 40

	return transferModel{inputs: []textinput.Model{email, amount, description}}
}

func (m transferModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Invia denaro"))
	b.WriteString("\n\n")
	b.WriteString("Destinatario [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Importo €    [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")
	b.WriteString("Descrizione  [")
	b.WriteString(m.inputs[2].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Invio in corso...]\n")
	} else {
		b.WriteString("\n[Invia]\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc indietro  tab campo succ.  enter conferma"))
	return b.String()
}
