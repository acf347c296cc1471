package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/avitali/borsellino/internal/adapter"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/internal/store"
	"github.com/avitali/borsellino/models"
)

// MaxRechargeAmount is the per-operation recharge cap enforced client-side
// as a guard rail; the server applies the same limit authoritatively.
const MaxRechargeAmount = 10000.0

type walletService struct {
	account *AccountState
	tokens  store.TokenRepository
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewWalletService(account *AccountState, tokens store.TokenRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) WalletService {
	return &walletService{account: account, tokens: tokens, adapter: serverAdapter, logger: logger}
}

// forceLogoutOnAuthError collapses the session when the server rejects the
// current token. The 401 still reaches the caller; the transition just does
// not wait for the next background refresh to notice the dead token.
func (w *walletService) forceLogoutOnAuthError(ctx context.Context, err error) {
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return
	}

	w.logger.Debug().Str("func", "walletService.forceLogoutOnAuthError").Msg("token rejected by server, forcing logout")
	w.adapter.SetToken("")
	if clearErr := w.tokens.Clear(ctx); clearErr != nil {
		w.logger.Err(clearErr).Str("func", "walletService.forceLogoutOnAuthError").Msg("failed to clear stored token")
	}
	w.account.setAnonymous()
}

// Transfer implements [WalletService]. The balance check is optimistic: it
// spares a doomed round trip, but the server re-checks under lock and its
// rejection is authoritative even when the local check passed.
func (w *walletService) Transfer(ctx context.Context, toEmail string, amount float64, description string) (models.Transaction, error) {
	if w.account.State() != StateAuthenticated {
		return models.Transaction{}, ErrNotAuthenticated
	}
	if amount <= 0 {
		return models.Transaction{}, ErrAmountNotPositive
	}
	if amount > w.account.Balance() {
		return models.Transaction{}, ErrInsufficientBalance
	}

	gen := w.account.Generation()
	tx, err := w.adapter.Transfer(ctx, models.TransferRequest{
		ToEmail:     toEmail,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		w.forceLogoutOnAuthError(ctx, err)
		return models.Transaction{}, err
	}

	if !w.account.applyTransactionIf(gen, -amount, tx) {
		w.logger.Debug().Str("func", "walletService.Transfer").Msg("session moved on, skipping local balance update")
	}
	return tx, nil
}

// Recharge implements [WalletService]. For a new card a fresh opaque token
// is generated and the raw fields are forwarded; for a saved card only its
// token travels. SaveCard is honored exclusively for new cards.
func (w *walletService) Recharge(ctx context.Context, order RechargeOrder) (models.Transaction, bool, error) {
	if w.account.State() != StateAuthenticated {
		return models.Transaction{}, false, ErrNotAuthenticated
	}
	if order.Amount <= 0 {
		return models.Transaction{}, false, ErrAmountNotPositive
	}
	if order.Amount > MaxRechargeAmount {
		return models.Transaction{}, false, ErrRechargeLimit
	}

	req := models.RechargeRequest{Amount: order.Amount}
	switch {
	case order.NewCard != nil:
		if order.NewCard.CardNumber == "" || order.NewCard.ExpiryDate == "" ||
			order.NewCard.CVV == "" || order.NewCard.CardholderName == "" {
			return models.Transaction{}, false, ErrCardDetailsRequired
		}
		req.CardToken = newCardToken()
		req.CardData = order.NewCard
		req.SaveCard = order.SaveCard
	case order.CardToken != "":
		req.CardToken = order.CardToken
	default:
		return models.Transaction{}, false, ErrNoCardSelected
	}

	gen := w.account.Generation()
	tx, err := w.adapter.Recharge(ctx, req)
	if err != nil {
		w.forceLogoutOnAuthError(ctx, err)
		return models.Transaction{}, false, err
	}

	if !w.account.applyTransactionIf(gen, order.Amount, tx) {
		w.logger.Debug().Str("func", "walletService.Recharge").Msg("session moved on, skipping local balance update")
	}
	return tx, req.SaveCard, nil
}

// LoadTransactions implements [WalletService].
func (w *walletService) LoadTransactions(ctx context.Context) error {
	if w.account.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}

	gen := w.account.Generation()
	txs, err := w.adapter.GetTransactions(ctx)
	if err != nil {
		w.forceLogoutOnAuthError(ctx, err)
		return err
	}

	w.account.setHistoryIf(gen, txs)
	return nil
}

// Cards implements [WalletService].
func (w *walletService) Cards(ctx context.Context) ([]models.Card, error) {
	resp, err := w.adapter.GetCards(ctx)
	if err != nil {
		w.forceLogoutOnAuthError(ctx, err)
		return nil, err
	}
	return resp.Cards, nil
}

// SetDefaultCard implements [WalletService].
func (w *walletService) SetDefaultCard(ctx context.Context, cardID int64) error {
	if err := w.adapter.SetDefaultCard(ctx, cardID); err != nil {
		w.forceLogoutOnAuthError(ctx, err)
		return err
	}
	return nil
}

// DeleteCard implements [WalletService].
func (w *walletService) DeleteCard(ctx context.Context, cardID int64) error {
	if err := w.adapter.DeleteCard(ctx, cardID); err != nil {
		w.forceLogoutOnAuthError(ctx, err)
		return err
	}
	return nil
}

// newCardToken mints the opaque reference sent instead of raw card data on
// follow-up uses of a saved card. The simulated payment backend accepts any
// unique value here.
func newCardToken() string {
	return "tok_" + uuid.NewString()
}
