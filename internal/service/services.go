package service

import (
	"github.com/avitali/borsellino/internal/adapter"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/internal/store"
)

// ClientServices bundles the session/state layer for the wiring code and
// the UI collaborators.
type ClientServices struct {
	Account    *AccountState
	Auth       AuthService
	Wallet     WalletService
	RefreshJob RefreshJob
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, log *logger.Logger) *ClientServices {
	account := NewAccountState()
	auth := NewAuthService(account, storages.Tokens, serverAdapter, log)
	wallet := NewWalletService(account, storages.Tokens, serverAdapter, log)

	return &ClientServices{
		Account:    account,
		Auth:       auth,
		Wallet:     wallet,
		RefreshJob: NewRefreshJob(auth, account),
	}
}
