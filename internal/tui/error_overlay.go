package tui

type errorOverlayModel struct {
	message string
}

func (m errorOverlayModel) View() string {
	return overlayBoxStyle.Render(errorStyle.Render("Errore") + "\n\n" + m.message + "\n\n" + helpStyle.Render("enter chiudi"))
}

type confirmModel struct {
	message string
}

func (m confirmModel) View() string {
	return overlayBoxStyle.Render("Eliminare " + m.message + "?\n\n" + helpStyle.Render("s/y conferma  n annulla"))
}
