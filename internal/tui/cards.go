package tui

import (
	"github.com/avitali/borsellino/models"
)

type cardsModel struct {
	cards   []models.Card
	idx     int
	loading bool
	status  string
}

func newCardsModel() cardsModel {
	return cardsModel{loading: true}
}

func (m cardsModel) current() (models.Card, bool) {
	if len(m.cards) == 0 || m.idx < 0 || m.idx >= len(m.cards) {
		return models.Card{}, false
	}
	return m.cards[m.idx], true
}

func (m cardsModel) View() string {
	out := titleStyle.Render("Le mie carte") + "\n\n"

	switch {
	case m.loading:
		out += "Caricamento...\n"
	case len(m.cards) == 0:
		out += "Nessuna carta salvata\n"
	default:
		for i, c := range m.cards {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			out += cursor + cardLabel(c) + "\n"
		}
	}

	if m.status != "" {
		out += "\n" + m.status + "\n"
	}

	out += "\n" + helpStyle.Render("esc indietro  p predefinita  d elimina  r aggiorna")
	return out
}
