package tui

import (
	"github.com/avitali/borsellino/models"
)

type authDoneMsg struct {
	err error
}

type loggedOutMsg struct{}

type accountChangedMsg struct{}

type refreshDoneMsg struct {
	err error
}

type historyLoadedMsg struct {
	err error
}

type cardsLoadedMsg struct {
	cards []models.Card
	err   error
}

type transferDoneMsg struct {
	tx  models.Transaction
	err error
}

type rechargeDoneMsg struct {
	tx             models.Transaction
	savedRequested bool
	err            error
}

type cardCommandDoneMsg struct {
	err error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
