package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitali/borsellino/internal/service"
	"github.com/avitali/borsellino/models"
)

var ErrUserQuit = errors.New("user quit")

type screen int

const (
	screenWelcome screen = iota
	screenLogin
	screenRegister
	screenDashboard
	screenTransfer
	screenRecharge
	screenHistory
	screenCards
)

type appModel struct {
	ctx           context.Context
	services      *service.ClientServices
	accountCh     <-chan struct{}
	currentScreen screen

	welcome   welcomeModel
	login     loginModel
	register  registerModel
	dashboard dashboardModel
	transfer  transferModel
	recharge  rechargeModel
	history   historyModel
	cards     cardsModel

	err             error
	showError       bool
	errorOverlay    errorOverlayModel
	showConfirm     bool
	confirm         confirmModel
	pendingDeleteID int64
}

func newAppModel(ctx context.Context, services *service.ClientServices) appModel {
	m := appModel{
		ctx:       ctx,
		services:  services,
		accountCh: services.Account.Subscribe(),
		welcome:   newWelcomeModel(),
		login:     newLoginModel(),
		register:  newRegisterModel(),
		dashboard: newDashboardModel(),
		transfer:  newTransferModel(),
		recharge:  newRechargeModel(),
		history:   newHistoryModel(),
		cards:     newCardsModel(),
	}

	// Bootstrap ran before the program started; land on the dashboard when
	// it restored a session.
	if services.Account.State() == service.StateAuthenticated {
		m.currentScreen = screenDashboard
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.cmdWatchAccount()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global hotkey for every screen.
		if msg.String() == "ctrl+c" {
			m.err = ErrUserQuit
			return m, tea.Quit
		}
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errorOverlay.message = ""
			}
			return m, nil
		}
		if m.showConfirm {
			if key.Matches(msg, keys.yes) {
				m.showConfirm = false
				if m.pendingDeleteID == 0 {
					return m, nil
				}
				return m, m.cmdDeleteCard(m.pendingDeleteID)
			}
			if key.Matches(msg, keys.no) || key.Matches(msg, keys.esc) {
				m.showConfirm = false
				m.pendingDeleteID = 0
			}
			return m, nil
		}
	case accountChangedMsg:
		// A forced logout (401 on any request) lands the session back on
		// anonymous; every authenticated screen collapses to the welcome
		// one.
		if m.services.Account.State() == service.StateAnonymous && m.currentScreen >= screenDashboard {
			m = m.resetToWelcome()
			m.showErrorf("Sessione scaduta, accedi di nuovo")
		}
		return m, m.cmdWatchAccount()
	case authDoneMsg:
		m.login.submitting = false
		m.register.submitting = false
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.currentScreen = screenDashboard
		m.login = newLoginModel()
		m.register = newRegisterModel()
		return m, nil
	case loggedOutMsg:
		m = m.resetToWelcome()
		return m, nil
	case refreshDoneMsg:
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.dashboard.status = "Saldo aggiornato"
		return m, cmdClearStatus()
	case historyLoadedMsg:
		m.history.loading = false
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
		}
		return m, nil
	case cardsLoadedMsg:
		m.recharge.loading = false
		m.cards.loading = false
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.recharge.cards = msg.cards
		m.recharge.selectDefaultCard()
		m.cards.cards = msg.cards
		if m.cards.idx >= len(msg.cards) {
			m.cards.idx = 0
		}
		return m, nil
	case transferDoneMsg:
		m.transfer.submitting = false
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.transfer = newTransferModel()
		m.currentScreen = screenDashboard
		m.dashboard.status = fmt.Sprintf("Inviati %s", formatAmount(msg.tx.Amount))
		return m, cmdClearStatus()
	case rechargeDoneMsg:
		m.recharge.submitting = false
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.recharge = newRechargeModel()
		m.currentScreen = screenDashboard
		m.dashboard.status = fmt.Sprintf("Ricaricati %s", formatAmount(msg.tx.Amount))
		if msg.savedRequested {
			m.dashboard.status += " · carta salvata"
		}
		return m, cmdClearStatus()
	case cardCommandDoneMsg:
		if msg.err != nil {
			m.showErrorf(humanizeError(msg.err))
			return m, nil
		}
		m.pendingDeleteID = 0
		m.cards.loading = true
		return m, m.cmdLoadCards()
	case copiedMsg:
		m.history.status = "ID copiato!"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.history.status = ""
		m.dashboard.status = ""
		m.cards.status = ""
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	switch m.currentScreen {
	case screenWelcome:
		return m.updateWelcome(msg)
	case screenLogin:
		return m.updateLogin(msg)
	case screenRegister:
		return m.updateRegister(msg)
	case screenDashboard:
		return m.updateDashboard(msg)
	case screenTransfer:
		return m.updateTransfer(msg)
	case screenRecharge:
		return m.updateRecharge(msg)
	case screenHistory:
		return m.updateHistory(msg)
	case screenCards:
		return m.updateCards(msg)
	}

	return m, nil
}

func (m appModel) View() string {
	var body string
	switch m.currentScreen {
	case screenWelcome:
		body = m.welcome.View()
	case screenLogin:
		body = m.login.View()
	case screenRegister:
		body = m.register.View()
	case screenDashboard:
		profile, ok := m.services.Account.Profile()
		body = m.dashboard.View(profile, ok)
	case screenTransfer:
		body = m.transfer.View()
	case screenRecharge:
		body = m.recharge.View()
	case screenHistory:
		profile, _ := m.services.Account.Profile()
		body = m.history.View(profile.ID, m.services.Account.History())
	case screenCards:
		body = m.cards.View()
	}

	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}
	if m.showError {
		body += "\n\n" + m.errorOverlay.View()
	}

	return appStyle.Render(body)
}

func (m *appModel) showErrorf(message string) {
	m.showError = true
	m.errorOverlay.message = message
}

func (m appModel) resetToWelcome() appModel {
	m.currentScreen = screenWelcome
	m.login = newLoginModel()
	m.register = newRegisterModel()
	m.dashboard = newDashboardModel()
	m.transfer = newTransferModel()
	m.recharge = newRechargeModel()
	m.history = newHistoryModel()
	m.cards = newCardsModel()
	m.pendingDeleteID = 0
	m.showConfirm = false
	return m
}

func (m appModel) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.welcome.idx > 0 {
			m.welcome.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.welcome.idx < len(m.welcome.items)-1 {
			m.welcome.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if m.welcome.idx == 0 {
			m.currentScreen = screenLogin
		} else {
			m.currentScreen = screenRegister
		}
	case key.Matches(keyMsg, keys.quit):
		m.err = ErrUserQuit
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenWelcome
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.login.focus = focusNext(m.login.inputs, m.login.focus)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.login.focus = focusPrev(m.login.inputs, m.login.focus)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.login.submitting {
				return m, nil
			}
			email := strings.TrimSpace(m.login.inputs[0].Value())
			pass := m.login.inputs[1].Value()
			if email == "" || pass == "" {
				m.showErrorf("Email e password sono obbligatorie")
				return m, nil
			}
			m.login.submitting = true
			return m, m.cmdLogin(email, pass)
		}
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenWelcome
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.register.focus = focusNext(m.register.inputs, m.register.focus)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.register.focus = focusPrev(m.register.inputs, m.register.focus)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.register.submitting {
				return m, nil
			}

			firstName := strings.TrimSpace(m.register.inputs[regFieldFirstName].Value())
			lastName := strings.TrimSpace(m.register.inputs[regFieldLastName].Value())
			email := strings.TrimSpace(m.register.inputs[regFieldEmail].Value())
			pass := m.register.inputs[regFieldPassword].Value()
			repeat := m.register.inputs[regFieldRepeat].Value()
			if firstName == "" || lastName == "" || email == "" || pass == "" {
				m.showErrorf("Nome, cognome, email e password sono obbligatori")
				return m, nil
			}
			if pass != repeat {
				m.showErrorf("Le password non coincidono")
				return m, nil
			}

			m.register.submitting = true
			return m, m.cmdRegister(models.RegisterRequest{
				Email:       email,
				Password:    pass,
				FirstName:   firstName,
				LastName:    lastName,
				PhoneNumber: strings.TrimSpace(m.register.inputs[regFieldPhone].Value()),
				DateOfBirth: strings.TrimSpace(m.register.inputs[regFieldBirthDate].Value()),
				Address:     strings.TrimSpace(m.register.inputs[regFieldAddress].Value()),
				City:        strings.TrimSpace(m.register.inputs[regFieldCity].Value()),
				PostalCode:  strings.TrimSpace(m.register.inputs[regFieldPostalCode].Value()),
				Country:     strings.TrimSpace(m.register.inputs[regFieldCountry].Value()),
			})
		}
	}

	var cmd tea.Cmd
	m.register.inputs[m.register.focus], cmd = m.register.inputs[m.register.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.dashboard.idx > 0 {
			m.dashboard.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.dashboard.idx < len(m.dashboard.items)-1 {
			m.dashboard.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		switch m.dashboard.idx {
		case 0:
			m.transfer = newTransferModel()
			m.currentScreen = screenTransfer
		case 1:
			m.recharge = newRechargeModel()
			m.currentScreen = screenRecharge
			return m, m.cmdLoadCards()
		case 2:
			m.history = newHistoryModel()
			m.currentScreen = screenHistory
			return m, m.cmdLoadHistory()
		case 3:
			m.cards = newCardsModel()
			m.currentScreen = screenCards
			return m, m.cmdLoadCards()
		}
	case key.Matches(keyMsg, keys.refresh):
		return m, m.cmdRefreshProfile()
	case key.Matches(keyMsg, keys.logout):
		return m, m.cmdLogout()
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateTransfer(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenDashboard
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.transfer.focus = focusNext(m.transfer.inputs, m.transfer.focus)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.transfer.focus = focusPrev(m.transfer.inputs, m.transfer.focus)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.transfer.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.transfer.inputs[0].Value())
			if email == "" {
				m.showErrorf("Inserisci l'email del destinatario")
				return m, nil
			}
			amount, err := parseAmount(m.transfer.inputs[1].Value())
			if err != nil {
				m.showErrorf("Importo non valido")
				return m, nil
			}

			m.transfer.submitting = true
			description := strings.TrimSpace(m.transfer.inputs[2].Value())
			return m, m.cmdTransfer(email, amount, description)
		}
	}

	var cmd tea.Cmd
	m.transfer.inputs[m.transfer.focus], cmd = m.transfer.inputs[m.transfer.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateRecharge(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenDashboard
			return m, nil
		case key.Matches(keyMsg, keys.up):
			if m.recharge.idx > 0 {
				m.recharge.idx--
				m.rechargeFocusAmount()
			}
			return m, nil
		case key.Matches(keyMsg, keys.down):
			if m.recharge.idx < len(m.recharge.cards) {
				m.recharge.idx++
				m.rechargeFocusAmount()
			}
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.rechargeFocusNext(1)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.rechargeFocusNext(-1)
			return m, nil
		case key.Matches(keyMsg, keys.toggle):
			if m.recharge.newCardSelected() {
				m.recharge.saveCard = !m.recharge.saveCard
			}
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.recharge.submitting {
				return m, nil
			}

			amount, err := parseAmount(m.recharge.amount.Value())
			if err != nil {
				m.showErrorf("Importo non valido")
				return m, nil
			}

			order := service.RechargeOrder{Amount: amount}
			if m.recharge.newCardSelected() {
				order.NewCard = &models.CardData{
					CardNumber:     strings.TrimSpace(m.recharge.cardInputs[cardFieldNumber].Value()),
					ExpiryDate:     strings.TrimSpace(m.recharge.cardInputs[cardFieldExpiry].Value()),
					CVV:            strings.TrimSpace(m.recharge.cardInputs[cardFieldCVV].Value()),
					CardholderName: strings.TrimSpace(m.recharge.cardInputs[cardFieldHolder].Value()),
				}
				order.SaveCard = m.recharge.saveCard
			} else if card, ok := m.rechargeSelectedCard(); ok {
				order.CardToken = card.CardToken
			}

			m.recharge.submitting = true
			return m, m.cmdRecharge(order)
		}
	}

	var cmd tea.Cmd
	if m.recharge.focus == 0 {
		m.recharge.amount, cmd = m.recharge.amount.Update(msg)
	} else {
		idx := m.recharge.focus - 1
		m.recharge.cardInputs[idx], cmd = m.recharge.cardInputs[idx].Update(msg)
	}
	return m, cmd
}

func (m appModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	txs := m.services.Account.History()
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenDashboard
	case key.Matches(keyMsg, keys.up):
		if m.history.idx > 0 {
			m.history.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.history.idx < len(txs)-1 {
			m.history.idx++
		}
	case key.Matches(keyMsg, keys.copy):
		if m.history.idx >= 0 && m.history.idx < len(txs) {
			return m, cmdCopyToClipboard(strconv.FormatInt(txs[m.history.idx].ID, 10))
		}
	case key.Matches(keyMsg, keys.refresh):
		m.history.loading = true
		return m, m.cmdLoadHistory()
	}
	return m, nil
}

func (m appModel) updateCards(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenDashboard
	case key.Matches(keyMsg, keys.up):
		if m.cards.idx > 0 {
			m.cards.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.cards.idx < len(m.cards.cards)-1 {
			m.cards.idx++
		}
	case key.Matches(keyMsg, keys.setDefault):
		if card, ok := m.cards.current(); ok {
			return m, m.cmdSetDefaultCard(card.ID)
		}
	case key.Matches(keyMsg, keys.delete):
		if card, ok := m.cards.current(); ok {
			m.showConfirm = true
			m.confirm.message = cardLabel(card)
			m.pendingDeleteID = card.ID
		}
	case key.Matches(keyMsg, keys.refresh):
		m.cards.loading = true
		return m, m.cmdLoadCards()
	}
	return m, nil
}

// rechargeFocusAmount pulls focus back to the amount input when the card
// selection changes, so keystrokes never land in a hidden card field.
func (m *appModel) rechargeFocusAmount() {
	for i := range m.recharge.cardInputs {
		m.recharge.cardInputs[i].Blur()
	}
	m.recharge.focus = 0
	m.recharge.amount.Focus()
}

// rechargeFocusNext cycles focus over the amount input plus, when the new
// card entry is selected, the four card fields.
func (m *appModel) rechargeFocusNext(dir int) {
	count := 1
	if m.recharge.newCardSelected() {
		count = 1 + cardFieldCount
	}

	if m.recharge.focus == 0 {
		m.recharge.amount.Blur()
	} else {
		m.recharge.cardInputs[m.recharge.focus-1].Blur()
	}

	m.recharge.focus = (m.recharge.focus + dir + count) % count

	if m.recharge.focus == 0 {
		m.recharge.amount.Focus()
	} else {
		m.recharge.cardInputs[m.recharge.focus-1].Focus()
	}
}

func (m appModel) rechargeSelectedCard() (models.Card, bool) {
	if m.recharge.idx < 0 || m.recharge.idx >= len(m.recharge.cards) {
		return models.Card{}, false
	}
	return m.recharge.cards[m.recharge.idx], true
}

func (m appModel) cmdWatchAccount() tea.Cmd {
	ch := m.accountCh
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return accountChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m appModel) cmdLogin(email, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.services.Auth
	return func() tea.Msg {
		return authDoneMsg{err: auth.Login(ctx, email, password)}
	}
}

func (m appModel) cmdRegister(req models.RegisterRequest) tea.Cmd {
	ctx := m.ctx
	auth := m.services.Auth
	return func() tea.Msg {
		return authDoneMsg{err: auth.Register(ctx, req)}
	}
}

func (m appModel) cmdLogout() tea.Cmd {
	auth := m.services.Auth
	return func() tea.Msg {
		auth.Logout()
		return loggedOutMsg{}
	}
}

func (m appModel) cmdRefreshProfile() tea.Cmd {
	ctx := m.ctx
	auth := m.services.Auth
	return func() tea.Msg {
		return refreshDoneMsg{err: auth.RefreshProfile(ctx)}
	}
}

func (m appModel) cmdLoadHistory() tea.Cmd {
	ctx := m.ctx
	wallet := m.services.Wallet
	return func() tea.Msg {
		return historyLoadedMsg{err: wallet.LoadTransactions(ctx)}
	}
}

func (m appModel) cmdLoadCards() tea.Cmd {
	ctx := m.ctx
	wallet := m.services.Wallet
	return func() tea.Msg {
		cards, err := wallet.Cards(ctx)
		return cardsLoadedMsg{cards: cards, err: err}
	}
}

func (m appModel) cmdTransfer(toEmail string, amount float64, description string) tea.Cmd {
	ctx := m.ctx
	wallet := m.services.Wallet
	return func() tea.Msg {
		tx, err := wallet.Transfer(ctx, toEmail, amount, description)
		return transferDoneMsg{tx: tx, err: err}
	}
}

func (m appModel) cmdRecharge(order service.RechargeOrder) tea.Cmd {
	ctx := m.ctx
	wallet := m.services.Wallet
	return func() tea.Msg {
		tx, savedRequested, err := wallet.Recharge(ctx, order)
		return rechargeDoneMsg{tx: tx, savedRequested: savedRequested, err: err}
	}
}

func (m appModel) cmdSetDefaultCard(cardID int64) tea.Cmd {
	ctx := m.ctx
	wallet := m.services.Wallet
	return func() tea.Msg {
		return cardCommandDoneMsg{err: wallet.SetDefaultCard(ctx, cardID)}
	}
}

func (m appModel) cmdDeleteCard(cardID int64) tea.Cmd {
	ctx := m.ctx
	wallet := m.services.Wallet
	return func() tea.Msg {
		return cardCommandDoneMsg{err: wallet.DeleteCard(ctx, cardID)}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return clearStatusMsg{}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// parseAmount accepts both the Italian decimal comma and the dot.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

func focusNext(inputs []textinput.Model, focus int) int {
	inputs[focus].Blur()
	focus = (focus + 1) % len(inputs)
	inputs[focus].Focus()
	return focus
}

func focusPrev(inputs []textinput.Model, focus int) int {
	inputs[focus].Blur()
	focus = (focus - 1 + len(inputs)) % len(inputs)
	inputs[focus].Focus()
	return focus
}
