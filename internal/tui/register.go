package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// Input order of the registration form. Everything past repeat password is
// optional; the server fills its own defaults.
const (
	regFieldFirstName = iota
	regFieldLastName
	regFieldEmail
	regFieldPassword
	regFieldRepeat
	regFieldPhone
	regFieldBirthDate
	regFieldAddress
	regFieldCity
	regFieldPostalCode
	regFieldCountry
	regFieldCount
)

var registerLabels = [regFieldCount]string{
	"Nome",
	"Cognome",
	"Email",
	"Password",
	"Ripeti password",
	"Telefono",
	"Data di nascita",
	"Indirizzo",
	"Città",
	"CAP",
	"Paese",
}

type registerModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newRegisterModel() registerModel {
	inputs := make([]textinput.Model, regFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 128
		in.Width = 40
		inputs[i] = in
	}

	inputs[regFieldEmail].Placeholder = "mario.rossi@example.com"
	inputs[regFieldPassword].EchoMode = textinput.EchoPassword
	inputs[regFieldPassword].EchoCharacter = '*'
	inputs[regFieldRepeat].EchoMode = textinput.EchoPassword
	inputs[regFieldRepeat].EchoCharacter = '*'
	inputs[regFieldBirthDate].Placeholder = "1990-01-31"
	inputs[regFieldPostalCode].CharLimit = 10
	inputs[regFieldCountry].Placeholder = "Italia"

	inputs[regFieldFirstName].Focus()
	return registerModel{inputs: inputs}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Registrati"))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := registerLabels[i]
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", 16-len([]rune(label))))
		b.WriteString("[")
		b.WriteString(in.View())
		b.WriteString("]\n")
	}

	if m.submitting {
		b.WriteString("\n[Registrazione in corso...]\n")
	} else {
		b.WriteString("\n[Registrati]\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc indietro  tab campo succ.  enter conferma"))
	return b.String()
}
