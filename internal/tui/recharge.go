package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/avitali/borsellino/models"
)

// Input order of the new-card form shown when "Nuova carta" is selected.
const (
	cardFieldNumber = iota
	cardFieldExpiry
	cardFieldCVV
	cardFieldHolder
	cardFieldCount
)

type rechargeModel struct {
	cards   []models.Card
	loading bool
	idx     int

	amount     textinput.Model
	cardInputs []textinput.Model
	saveCard   bool

	focus      int
	submitting bool
}

func newRechargeModel() rechargeModel {
	amount := textinput.New()
	amount.Placeholder = "0,00"
	amount.CharLimit = 12
	amount.Width = 40
	amount.Focus()

	inputs := make([]textinput.Model, cardFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Width = 40
		inputs[i] = in
	}
	inputs[cardFieldNumber].Placeholder = "4111 1111 1111 1111"
	inputs[cardFieldNumber].CharLimit = 23
	inputs[cardFieldExpiry].Placeholder = "MM/AA"
	inputs[cardFieldExpiry].CharLimit = 5
	inputs[cardFieldCVV].Placeholder = "123"
	inputs[cardFieldCVV].CharLimit = 4
	inputs[cardFieldCVV].EchoMode = textinput.EchoPassword
	inputs[cardFieldCVV].EchoCharacter = '*'
	inputs[cardFieldHolder].Placeholder = "MARIO ROSSI"
	inputs[cardFieldHolder].CharLimit = 64

	return rechargeModel{
		loading:    true,
		amount:     amount,
		cardInputs: inputs,
	}
}

// newCardSelected reports whether the cursor sits on the trailing "Nuova
// carta" entry rather than on a saved card.
func (m rechargeModel) newCardSelected() bool {
	return m.idx >= len(m.cards)
}

// selectDefaultCard moves the cursor to the saved card flagged as default,
// mirroring the preselection the web client does.
func (m *rechargeModel) selectDefaultCard() {
	for i, c := range m.cards {
		if c.IsDefault {
			m.idx = i
			return
		}
	}
	m.idx = 0
}

func (m rechargeModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ricarica"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Caricamento carte...\n")
		return b.String()
	}

	b.WriteString("Importo € [")
	b.WriteString(m.amount.View())
	b.WriteString("]\n\nCarta:\n")

	for i, c := range m.cards {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		b.WriteString(cursor + cardLabel(c) + "\n")
	}
	cursor := "  "
	if m.newCardSelected() {
		cursor = "> "
	}
	b.WriteString(cursor + "Nuova carta\n")

	if m.newCardSelected() {
		b.WriteString("\n")
		labels := [cardFieldCount]string{"Numero     ", "Scadenza   ", "CVV        ", "Intestata a"}
		for i, in := range m.cardInputs {
			b.WriteString(labels[i] + "[" + in.View() + "]")
			if i == cardFieldNumber && in.Value() != "" {
				b.WriteString("  " + helpStyle.Render(detectCardBrand(in.Value())))
			}
			b.WriteString("\n")
		}

		check := "[ ]"
		if m.saveCard {
			check = "[x]"
		}
		b.WriteString("\n" + check + " Salva la carta per la prossima volta\n")
	}

	if m.submitting {
		b.WriteString("\n[Ricarica in corso...]\n")
	} else {
		b.WriteString("\n[Ricarica]\n")
	}

	b.WriteString("\n")
	help := "esc indietro  su/giù scegli carta  tab campo succ.  enter conferma"
	if m.newCardSelected() {
		help += "  ctrl+s salva carta"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func cardLabel(c models.Card) string {
	label := fmt.Sprintf("%s •••• %s", c.CardBrand, c.CardLast4)
	if c.IsDefault {
		label += " (predefinita)"
	}
	return label
}

// detectCardBrand classifies a card number by its leading digits, enough
// for the simulated circuits the server accepts.
func detectCardBrand(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case strings.HasPrefix(digits, "51"), strings.HasPrefix(digits, "52"),
		strings.HasPrefix(digits, "53"), strings.HasPrefix(digits, "54"),
		strings.HasPrefix(digits, "55"):
		return "Mastercard"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "American Express"
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "622"),
		strings.HasPrefix(digits, "64"), strings.HasPrefix(digits, "65"):
		return "Discover"
	case strings.HasPrefix(digits, "35"):
		return "JCB"
	case strings.HasPrefix(digits, "36"), strings.HasPrefix(digits, "38"),
		strings.HasPrefix(digits, "39"):
		return "Diners Club"
	case strings.HasPrefix(digits, "62"):
		return "UnionPay"
	default:
		return "Carta"
	}
}
