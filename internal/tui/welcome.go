package tui

type welcomeModel struct {
	items []string
	idx   int
}

func newWelcomeModel() welcomeModel {
	return welcomeModel{items: []string{"Accedi", "Registrati"}}
}

func (m welcomeModel) View() string {
	out := titleStyle.Render("Borsellino") + "\n\nScegli un'azione:\n\n"
	for i, item := range m.items {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		out += cursor + item + "\n"
	}
	out += "\n" + helpStyle.Render("q esci")
	return out
}
